package commands

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/internal/usecase/shared"
)

// BookingCreator reserves capacity in the index and persists a new booking. It backs
// both direct booking requests and waitlist auto-booking.
type BookingCreator struct {
	uow      shared.UnitOfWork
	index    shared.AvailabilityIndex
	notifier shared.Notifier
	clock    clock.Clock
	metrics  shared.EngineMetrics
	logger   *slog.Logger
}

func NewBookingCreator(
	uow shared.UnitOfWork,
	index shared.AvailabilityIndex,
	notifier shared.Notifier,
	clock clock.Clock,
	metrics shared.EngineMetrics,
	logger *slog.Logger,
) *BookingCreator {
	return &BookingCreator{
		uow:      uow,
		index:    index,
		notifier: notifier,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// Create books p. When p names a waitlist entry, that entry is re-read and marked
// matched in the same transaction; an entry that stopped being active meanwhile
// aborts the booking.
func (c *BookingCreator) Create(ctx context.Context, p booking.NewParams) (*booking.Booking, error) {
	now := c.clock.Now()

	b, err := booking.NewBooking(p, now)
	if err != nil {
		return nil, domainErr(err)
	}

	refs := slotRefs(b.StaffID(), b.ResourceIDs())
	if err := c.index.ReserveAll(b.BranchID(), refs, b.Window(), b.ID()); err != nil {
		err = indexErr(err)
		for _, ref := range refs {
			if !c.index.IsFree(b.BranchID(), ref, b.Window()) {
				c.metrics.ReservationConflict(ref.Kind)
			}
		}
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return repoErr(err, "booking")
		}
		if b.WaitlistEntryID() == nil {
			return nil
		}
		// the closure may run again on serialization retries
		entry, err := tx.Waitlist().FindByID(ctx, *b.WaitlistEntryID())
		if err != nil {
			return repoErr(err, "waitlist entry")
		}
		if err := entry.MarkMatched(b.ID(), now); err != nil {
			return domainErr(err)
		}
		if err := tx.Waitlist().UpdateStatus(ctx, entry, waitlist.StatusActive); err != nil {
			return repoErr(err, "waitlist entry")
		}
		return nil
	})
	if err != nil {
		c.index.Release(b.ID())
		return nil, err
	}

	n := shared.Notification{
		Kind:       shared.NotificationBookingCreated,
		CustomerID: b.CustomerID(),
		BranchID:   b.BranchID(),
		BookingID:  ptr.Of(b.ID()),
		Window:     b.Window(),
	}
	if id := b.WaitlistEntryID(); id != nil {
		n.EntryID = ptr.Of(*id)
	}
	if err := c.notifier.Notify(ctx, n); err != nil {
		c.logger.Warn("failed to enqueue booking notification",
			slog.String("booking_id", b.ID().String()),
			slog.String("error", err.Error()))
	}

	return b, nil
}
