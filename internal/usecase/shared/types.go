package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

//go:generate mockgen -source=types.go -destination=../../../tests/mock/shared/types.go -package=sharedmock

type Feature string

const (
	FeatureWaitlistAutoBook Feature = "waitlist_auto_book"
	FeatureWaitlist         Feature = "waitlist"
)

// FeatureGate is the billing capability check. Provider failures deny the feature.
type FeatureGate interface {
	Allowed(ctx context.Context, branchID uuid.UUID, feature Feature) bool
}

type NotificationKind string

const (
	NotificationMatchProposed  NotificationKind = "match_proposed"
	NotificationBookingCreated NotificationKind = "booking_created"
)

type Notification struct {
	Kind       NotificationKind
	EntryID    *uuid.UUID
	CustomerID uuid.UUID
	BranchID   uuid.UUID
	BookingID  *uuid.UUID
	Window     window.Window
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// BookingLocker serializes work on one booking across callers and instances.
type BookingLocker interface {
	Acquire(ctx context.Context, bookingID uuid.UUID) (release func(), err error)
}

// AvailabilityIndex is the single owner of staff and resource occupancy.
type AvailabilityIndex interface {
	IsFree(branchID uuid.UUID, ref availability.Ref, w window.Window) bool
	Occupancy(branchID uuid.UUID, ref availability.Ref, w window.Window) (availability.Occupancy, error)
	ReserveAll(branchID uuid.UUID, refs []availability.Ref, w window.Window, bookingID uuid.UUID) error
	Replace(branchID uuid.UUID, bookingID uuid.UUID, refs []availability.Ref, w window.Window) error
	Release(bookingID uuid.UUID)
	SetCapacity(branchID uuid.UUID, resourceID uuid.UUID, capacity int) error
	Load(seeds []availability.Seed) []error
	Prune(cutoff time.Time) int
}

type EngineMetrics interface {
	SettlementRecorded(outcome string)
	CompletionRejected(reason string)
	MatchOutcome(kind string)
	ReservationConflict(kind availability.Kind)
}

type NopMetrics struct{}

func (NopMetrics) SettlementRecorded(string)             {}
func (NopMetrics) CompletionRejected(string)             {}
func (NopMetrics) MatchOutcome(string)                   {}
func (NopMetrics) ReservationConflict(availability.Kind) {}
