// Package memstore is an in-process storage driver. Write transactions run one at a
// time against a private copy of the state that replaces the shared state on commit,
// so a failed transaction leaves nothing behind.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type state struct {
	bookings    map[uuid.UUID]*booking.Booking
	settlements map[uuid.UUID]*settlement.Settlement
	resources   map[uuid.UUID]*resource.Resource
	waitlist    map[uuid.UUID]*waitlist.Entry
	jobs        []NotificationJob
}

func (s *state) clone() *state {
	return &state{
		bookings:    maps.Clone(s.bookings),
		settlements: maps.Clone(s.settlements),
		resources:   maps.Clone(s.resources),
		waitlist:    maps.Clone(s.waitlist),
		jobs:        slices.Clone(s.jobs),
	}
}

type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	current *state
}

func NewStore() *Store {
	return &Store{current: &state{
		bookings:    map[uuid.UUID]*booking.Booking{},
		settlements: map[uuid.UUID]*settlement.Settlement{},
		resources:   map[uuid.UUID]*resource.Resource{},
		waitlist:    map[uuid.UUID]*waitlist.Entry{},
	}}
}

func NewUoW(s *Store) shared.UnitOfWork {
	return s
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.current.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = work
	s.mu.Unlock()
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snapshot := s.current
	s.mu.RUnlock()

	return fn(ctx, &memTx{st: snapshot, readOnly: true})
}

// Jobs returns the queued notification jobs in insertion order.
func (s *Store) Jobs() []NotificationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.current.jobs)
}

type memTx struct {
	st       *state
	readOnly bool
}

func (t *memTx) Bookings() shared.BookingRepository           { return bookingRepo{t} }
func (t *memTx) Settlements() shared.SettlementRepository     { return settlementRepo{t} }
func (t *memTx) Resources() shared.ResourceRepository         { return resourceRepo{t} }
func (t *memTx) Waitlist() shared.WaitlistRepository          { return waitlistRepo{t} }
func (t *memTx) Notifications() shared.NotificationRepository { return notificationRepo{t} }

func (t *memTx) writable(what string) error {
	if t.readOnly {
		return infra.WrapRepoErr(infra.KindDBFailure, "cannot write "+what+" in a read-only transaction", nil)
	}
	return nil
}

func notFound(what string) error {
	return infra.WrapRepoErr(infra.KindNotFound, what+" not found", nil)
}
