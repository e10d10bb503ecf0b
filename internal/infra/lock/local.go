package lock

import (
	"context"
	"sync"

	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// LocalLocker serializes work per booking inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch      chan struct{}
	waiters int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[uuid.UUID]*slot)}
}

var _ shared.BookingLocker = (*LocalLocker)(nil)

// Acquire blocks until the booking is free or ctx is done. Idle slots are dropped
// from the map once their last holder or waiter leaves.
func (l *LocalLocker) Acquire(ctx context.Context, bookingID uuid.UUID) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[bookingID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[bookingID] = s
	}
	s.waiters++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(bookingID, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.leave(bookingID, s)
		})
	}, nil
}

func (l *LocalLocker) leave(bookingID uuid.UUID, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, bookingID)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
