package memstore

import (
	"bytes"
	"context"
	"slices"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Stored entities are copies; callers never share a pointer with the store.

type bookingRepo struct{ tx *memTx }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.tx.writable("booking"); err != nil {
		return err
	}
	if _, ok := r.tx.st.bookings[b.ID()]; ok {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "booking already exists", nil)
	}
	for _, id := range b.ResourceIDs() {
		if _, ok := r.tx.st.resources[id]; !ok {
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, "unknown resource "+id.String(), nil)
		}
	}
	cp := *b
	r.tx.st.bookings[b.ID()] = &cp
	return nil
}

func (r bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if err := r.tx.writable("booking"); err != nil {
		return err
	}
	if _, ok := r.tx.st.bookings[b.ID()]; !ok {
		return notFound("booking")
	}
	cp := *b
	r.tx.st.bookings[b.ID()] = &cp
	return nil
}

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.tx.st.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	cp := *b
	return &cp, nil
}

// FindByIDForUpdate needs no row lock: write transactions are serialized.
func (r bookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r bookingRepo) ListScheduledEndingAfter(_ context.Context, t time.Time) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.tx.st.bookings {
		if b.IsScheduled() && b.Window().To().After(t) {
			cp := *b
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *booking.Booking) int {
		if c := a.Window().From().Compare(b.Window().From()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
	return out, nil
}

type settlementRepo struct{ tx *memTx }

func (r settlementRepo) Create(_ context.Context, s *settlement.Settlement) error {
	if err := r.tx.writable("settlement"); err != nil {
		return err
	}
	if _, ok := r.tx.st.settlements[s.BookingID()]; ok {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "booking already settled", nil)
	}
	if _, ok := r.tx.st.bookings[s.BookingID()]; !ok {
		return infra.WrapRepoErr(infra.KindForeignKeyViolated, "unknown booking", nil)
	}
	cp := *s
	r.tx.st.settlements[s.BookingID()] = &cp
	return nil
}

func (r settlementRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*settlement.Settlement, error) {
	s, ok := r.tx.st.settlements[bookingID]
	if !ok {
		return nil, notFound("settlement")
	}
	cp := *s
	return &cp, nil
}

type resourceRepo struct{ tx *memTx }

func (r resourceRepo) Create(_ context.Context, res *resource.Resource) error {
	if err := r.tx.writable("resource"); err != nil {
		return err
	}
	if _, ok := r.tx.st.resources[res.ID()]; ok {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "resource already exists", nil)
	}
	cp := *res
	r.tx.st.resources[res.ID()] = &cp
	return nil
}

func (r resourceRepo) Update(_ context.Context, res *resource.Resource) error {
	if err := r.tx.writable("resource"); err != nil {
		return err
	}
	if _, ok := r.tx.st.resources[res.ID()]; !ok {
		return notFound("resource")
	}
	cp := *res
	r.tx.st.resources[res.ID()] = &cp
	return nil
}

func (r resourceRepo) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	res, ok := r.tx.st.resources[id]
	if !ok {
		return nil, notFound("resource")
	}
	cp := *res
	return &cp, nil
}

func (r resourceRepo) ListByBranch(_ context.Context, branchID uuid.UUID) ([]*resource.Resource, error) {
	return r.collect(func(res *resource.Resource) bool { return res.BranchID() == branchID }), nil
}

func (r resourceRepo) ListAll(_ context.Context) ([]*resource.Resource, error) {
	return r.collect(func(*resource.Resource) bool { return true }), nil
}

func (r resourceRepo) collect(keep func(*resource.Resource) bool) []*resource.Resource {
	var out []*resource.Resource
	for _, res := range r.tx.st.resources {
		if keep(res) {
			cp := *res
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *resource.Resource) int {
		if a.Name() != b.Name() {
			if a.Name() < b.Name() {
				return -1
			}
			return 1
		}
		return compareIDs(a.ID(), b.ID())
	})
	return out
}

type waitlistRepo struct{ tx *memTx }

func (r waitlistRepo) Create(_ context.Context, e *waitlist.Entry) error {
	if err := r.tx.writable("waitlist entry"); err != nil {
		return err
	}
	if _, ok := r.tx.st.waitlist[e.ID()]; ok {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "waitlist entry already exists", nil)
	}
	cp := *e
	r.tx.st.waitlist[e.ID()] = &cp
	return nil
}

func (r waitlistRepo) UpdateStatus(_ context.Context, e *waitlist.Entry, expected waitlist.Status) error {
	if err := r.tx.writable("waitlist entry"); err != nil {
		return err
	}
	stored, ok := r.tx.st.waitlist[e.ID()]
	if !ok {
		return notFound("waitlist entry")
	}
	if stored.Status() != expected {
		return infra.WrapRepoErr(infra.KindConflict, "waitlist entry is no longer "+string(expected), nil)
	}
	cp := *e
	r.tx.st.waitlist[e.ID()] = &cp
	return nil
}

func (r waitlistRepo) FindByID(_ context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	e, ok := r.tx.st.waitlist[id]
	if !ok {
		return nil, notFound("waitlist entry")
	}
	cp := *e
	return &cp, nil
}

func (r waitlistRepo) ListActiveForSlot(_ context.Context, branchID, serviceID uuid.UUID, w window.Window) ([]*waitlist.Entry, error) {
	return r.collect(func(e *waitlist.Entry) bool {
		return e.IsActive() &&
			e.BranchID() == branchID &&
			e.ServiceID() == serviceID &&
			e.Desired().Overlaps(w)
	}, 0), nil
}

func (r waitlistRepo) List(_ context.Context, filter shared.WaitlistFilter) ([]*waitlist.Entry, error) {
	return r.collect(func(e *waitlist.Entry) bool {
		if e.BranchID() != filter.BranchID {
			return false
		}
		return filter.Status == nil || e.Status() == *filter.Status
	}, filter.Limit), nil
}

func (r waitlistRepo) collect(keep func(*waitlist.Entry) bool, limit int) []*waitlist.Entry {
	var out []*waitlist.Entry
	for _, e := range r.tx.st.waitlist {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *waitlist.Entry) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type notificationRepo struct{ tx *memTx }

func (r notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if err := r.tx.writable("notification job"); err != nil {
		return err
	}
	r.tx.st.jobs = append(r.tx.st.jobs, NotificationJob{
		Kind:    kind,
		Topic:   topic,
		Payload: slices.Clone(payload),
		RunAt:   runAt,
	})
	return nil
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
