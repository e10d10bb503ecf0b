package booking

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"time"

	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeServiceTotal = errors.New("service total cannot be negative")
	ErrAlreadySettled       = errors.New("booking is already settled")
	ErrNotScheduled         = errors.New("booking is not scheduled")
	ErrNoteTooLong          = errors.New("note is too long (max 1000 characters)")
	ErrDuplicateResource    = errors.New("resource listed more than once")
)

const MaxNoteLength = 1000

type NewParams struct {
	BranchID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceOptionID *uuid.UUID
	CustomerID      uuid.UUID
	StaffID         *uuid.UUID
	ResourceIDs     []uuid.UUID
	Window          window.Window
	ServiceTotal    decimal.Decimal
	Note            string
	WaitlistEntryID *uuid.UUID
}

type Booking struct {
	id              uuid.UUID
	branchID        uuid.UUID
	serviceID       uuid.UUID
	serviceOptionID *uuid.UUID
	customerID      uuid.UUID
	staffID         *uuid.UUID
	resourceIDs     []uuid.UUID
	window          window.Window
	serviceTotal    decimal.Decimal
	status          Status
	note            string
	waitlistEntryID *uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBooking(p NewParams, now time.Time) (*Booking, error) {
	if p.Window.IsZero() {
		return nil, window.ErrInvalidWindow
	}
	if p.ServiceTotal.IsNegative() {
		return nil, ErrNegativeServiceTotal
	}
	note, err := normalizeNote(p.Note)
	if err != nil {
		return nil, err
	}
	resources := slices.Clone(p.ResourceIDs)
	slices.SortFunc(resources, compareUUID)
	if len(slices.Compact(slices.Clone(resources))) != len(resources) {
		return nil, ErrDuplicateResource
	}

	return &Booking{
		id:              uuid.New(),
		branchID:        p.BranchID,
		serviceID:       p.ServiceID,
		serviceOptionID: p.ServiceOptionID,
		customerID:      p.CustomerID,
		staffID:         p.StaffID,
		resourceIDs:     resources,
		window:          p.Window,
		serviceTotal:    p.ServiceTotal,
		status:          StatusScheduled,
		note:            note,
		waitlistEntryID: p.WaitlistEntryID,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructBooking(
	id, branchID, serviceID uuid.UUID,
	serviceOptionID *uuid.UUID,
	customerID uuid.UUID,
	staffID *uuid.UUID,
	resourceIDs []uuid.UUID,
	w window.Window,
	serviceTotal decimal.Decimal,
	status Status,
	note string,
	waitlistEntryID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		branchID:        branchID,
		serviceID:       serviceID,
		serviceOptionID: serviceOptionID,
		customerID:      customerID,
		staffID:         staffID,
		resourceIDs:     resourceIDs,
		window:          w,
		serviceTotal:    serviceTotal,
		status:          status,
		note:            note,
		waitlistEntryID: waitlistEntryID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Settle moves a scheduled booking into the status matching the settlement outcome.
func (b *Booking) Settle(outcome settlement.Outcome, now time.Time) error {
	switch b.status {
	case StatusCompleted, StatusNoShow:
		return ErrAlreadySettled
	case StatusCancelled:
		return ErrNotScheduled
	}
	if outcome == settlement.OutcomeNoShow {
		b.status = StatusNoShow
	} else {
		b.status = StatusCompleted
	}
	b.updatedAt = now
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.status != StatusScheduled {
		return ErrNotScheduled
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

func (b *Booking) Reschedule(w window.Window, staffID *uuid.UUID, now time.Time) error {
	if b.status != StatusScheduled {
		return ErrNotScheduled
	}
	if w.IsZero() {
		return window.ErrInvalidWindow
	}
	b.window = w
	b.staffID = staffID
	b.updatedAt = now
	return nil
}

func (b *Booking) ChangeServiceTotal(total decimal.Decimal, now time.Time) error {
	if b.status != StatusScheduled {
		return ErrNotScheduled
	}
	if total.IsNegative() {
		return ErrNegativeServiceTotal
	}
	b.serviceTotal = total
	b.updatedAt = now
	return nil
}

func (b *Booking) ChangeNote(note string, now time.Time) error {
	n, err := normalizeNote(note)
	if err != nil {
		return err
	}
	b.note = n
	b.updatedAt = now
	return nil
}

func (b *Booking) Freed() FreedSlot {
	return FreedSlot{
		BookingID:       b.id,
		BranchID:        b.branchID,
		ServiceID:       b.serviceID,
		ServiceOptionID: b.serviceOptionID,
		StaffID:         b.staffID,
		ResourceIDs:     slices.Clone(b.resourceIDs),
		Window:          b.window,
		ServiceTotal:    b.serviceTotal,
	}
}

func (b *Booking) IsScheduled() bool {
	return b.status == StatusScheduled
}

func (b *Booking) ID() uuid.UUID                 { return b.id }
func (b *Booking) BranchID() uuid.UUID           { return b.branchID }
func (b *Booking) ServiceID() uuid.UUID          { return b.serviceID }
func (b *Booking) ServiceOptionID() *uuid.UUID   { return b.serviceOptionID }
func (b *Booking) CustomerID() uuid.UUID         { return b.customerID }
func (b *Booking) StaffID() *uuid.UUID           { return b.staffID }
func (b *Booking) ResourceIDs() []uuid.UUID      { return slices.Clone(b.resourceIDs) }
func (b *Booking) Window() window.Window         { return b.window }
func (b *Booking) ServiceTotal() decimal.Decimal { return b.serviceTotal }
func (b *Booking) Status() Status                { return b.status }
func (b *Booking) Note() string                  { return b.note }
func (b *Booking) WaitlistEntryID() *uuid.UUID   { return b.waitlistEntryID }
func (b *Booking) CreatedAt() time.Time          { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time          { return b.updatedAt }

func normalizeNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > MaxNoteLength {
		return "", ErrNoteTooLong
	}
	return note, nil
}

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
