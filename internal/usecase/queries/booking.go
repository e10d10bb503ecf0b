package queries

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock booking-engine/internal/usecase/queries BookingQueries,ResourceQueries,WaitlistQueries

type BookingQueries interface {
	GetBooking(ctx context.Context, actor user.Actor, id uuid.UUID) (*booking.Booking, error)
	GetSettlement(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*settlement.Settlement, error)
}

type bookingQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewBookingQueries(uow shared.UnitOfWork) BookingQueries {
	return &bookingQueriesImpl{uow: uow}
}

func (q *bookingQueriesImpl) GetBooking(ctx context.Context, actor user.Actor, id uuid.UUID) (*booking.Booking, error) {
	var b *booking.Booking
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		b, err = tx.Bookings().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, readErr(err, "booking")
	}
	if !actor.CanAccessBranch(b.BranchID()) {
		return nil, forbidden("booking belongs to another branch")
	}
	return b, nil
}

// GetSettlement reads the booking and its settlement in one snapshot so the branch
// check and the returned record agree.
func (q *bookingQueriesImpl) GetSettlement(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*settlement.Settlement, error) {
	var (
		b *booking.Booking
		s *settlement.Settlement
	)
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if b, err = tx.Bookings().FindByID(ctx, bookingID); err != nil {
			return readErr(err, "booking")
		}
		if s, err = tx.Settlements().FindByBookingID(ctx, bookingID); err != nil {
			return readErr(err, "settlement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessBranch(b.BranchID()) {
		return nil, forbidden("booking belongs to another branch")
	}
	return s, nil
}
