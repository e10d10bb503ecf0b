package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingUpdate is a role-tagged change set for a scheduled booking.
type BookingUpdate interface {
	permits(role user.Role) bool
	changes() bookingChanges
}

type bookingChanges struct {
	window       *window.Window
	staffID      *uuid.UUID
	clearStaff   bool
	serviceTotal *decimal.Decimal
	note         *string
}

type AdminBookingUpdate struct {
	Window       *window.Window
	StaffID      *uuid.UUID
	ClearStaff   bool
	ServiceTotal *decimal.Decimal
	Note         *string
}

func (AdminBookingUpdate) permits(role user.Role) bool { return role == user.RoleAdmin }

func (u AdminBookingUpdate) changes() bookingChanges {
	return bookingChanges{
		window:       u.Window,
		staffID:      u.StaffID,
		clearStaff:   u.ClearStaff,
		serviceTotal: u.ServiceTotal,
		note:         u.Note,
	}
}

// BranchAdminBookingUpdate cannot reprice a booking.
type BranchAdminBookingUpdate struct {
	Window     *window.Window
	StaffID    *uuid.UUID
	ClearStaff bool
	Note       *string
}

func (BranchAdminBookingUpdate) permits(role user.Role) bool {
	return role == user.RoleAdmin || role == user.RoleAdminBranch
}

func (u BranchAdminBookingUpdate) changes() bookingChanges {
	return bookingChanges{
		window:     u.Window,
		staffID:    u.StaffID,
		clearStaff: u.ClearStaff,
		note:       u.Note,
	}
}

type StaffBookingUpdate struct {
	Note *string
}

func (StaffBookingUpdate) permits(user.Role) bool { return true }

func (u StaffBookingUpdate) changes() bookingChanges {
	return bookingChanges{note: u.Note}
}

type UpdateBookingResult struct {
	Booking *booking.Booking
	Matches []MatchOutcome
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor user.Actor, input CreateBookingInput) (*booking.Booking, error)
	UpdateBooking(ctx context.Context, actor user.Actor, bookingID uuid.UUID, update BookingUpdate) (*UpdateBookingResult, error)
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	index   shared.AvailabilityIndex
	creator *BookingCreator
	matcher *Matcher
	locker  shared.BookingLocker
	clock   clock.Clock
	logger  *slog.Logger
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	index shared.AvailabilityIndex,
	creator *BookingCreator,
	matcher *Matcher,
	locker shared.BookingLocker,
	clock clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:     uow,
		index:   index,
		creator: creator,
		matcher: matcher,
		locker:  locker,
		clock:   clock,
		logger:  logger,
	}
}

func (u *bookingUseCaseImpl) CreateBooking(ctx context.Context, actor user.Actor, input CreateBookingInput) (*booking.Booking, error) {
	if !actor.CanAccessBranch(input.BranchID) {
		return nil, forbidden("cannot book for another branch")
	}

	return u.creator.Create(ctx, booking.NewParams{
		BranchID:        input.BranchID,
		ServiceID:       input.ServiceID,
		ServiceOptionID: input.ServiceOptionID,
		CustomerID:      input.CustomerID,
		StaffID:         input.StaffID,
		ResourceIDs:     input.ResourceIDs,
		Window:          input.Window,
		ServiceTotal:    input.ServiceTotal,
		Note:            input.Note,
	})
}

// UpdateBooking applies update under the booking lock. Moving the window or the staff
// member re-reserves the index first; the previous reservation is restored when the
// write fails, and the vacated slot is offered to the waitlist once committed.
func (u *bookingUseCaseImpl) UpdateBooking(
	ctx context.Context,
	actor user.Actor,
	bookingID uuid.UUID,
	update BookingUpdate,
) (*UpdateBookingResult, error) {
	if update == nil {
		return nil, errs.Mark(errs.New("update payload is required"), errs.ErrInvalidInput)
	}
	if !update.permits(actor.Role) {
		return nil, forbidden("role may not submit this booking update")
	}
	ch := update.changes()

	release, err := u.locker.Acquire(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLockUnavailable)
	}
	defer release()

	var (
		updated *booking.Booking
		vacated *booking.FreedSlot
	)
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return repoErr(err, "booking")
		}
		if !actor.CanAccessBranch(b.BranchID()) {
			return forbidden("booking belongs to another branch")
		}

		before := b.Freed()
		now := u.clock.Now()
		if err := applyChanges(b, ch, now); err != nil {
			return domainErr(err)
		}

		if slotMoved(before, b) {
			refs := slotRefs(b.StaffID(), b.ResourceIDs())
			if err := u.index.Replace(b.BranchID(), b.ID(), refs, b.Window()); err != nil {
				return indexErr(err)
			}
			vacated = &before
		}

		if err := tx.Bookings().Update(ctx, b); err != nil {
			return repoErr(err, "booking")
		}
		updated = b
		return nil
	})
	if err != nil {
		if vacated != nil {
			u.restore(*vacated)
		}
		return nil, err
	}

	result := &UpdateBookingResult{Booking: updated, Matches: []MatchOutcome{}}
	if vacated != nil {
		outcomes, err := u.matcher.OnSlotFreed(ctx, *vacated)
		if err != nil {
			u.logger.Warn("waitlist matching interrupted",
				slog.String("booking_id", bookingID.String()),
				slog.String("error", err.Error()))
		}
		if outcomes != nil {
			result.Matches = outcomes
		}
	}
	return result, nil
}

func (u *bookingUseCaseImpl) restore(prev booking.FreedSlot) {
	if err := u.index.Replace(prev.BranchID, prev.BookingID, freedRefs(prev), prev.Window); err != nil {
		u.logger.Error("failed to restore reservation",
			slog.String("booking_id", prev.BookingID.String()),
			slog.String("error", err.Error()))
	}
}

func applyChanges(b *booking.Booking, ch bookingChanges, now time.Time) error {
	if ch.window != nil || ch.staffID != nil || ch.clearStaff {
		w := b.Window()
		if ch.window != nil {
			w = *ch.window
		}
		staffID := b.StaffID()
		switch {
		case ch.clearStaff:
			staffID = nil
		case ch.staffID != nil:
			staffID = ch.staffID
		}
		if err := b.Reschedule(w, staffID, now); err != nil {
			return err
		}
	}
	if ch.serviceTotal != nil {
		if err := b.ChangeServiceTotal(*ch.serviceTotal, now); err != nil {
			return err
		}
	}
	if ch.note != nil {
		if err := b.ChangeNote(*ch.note, now); err != nil {
			return err
		}
	}
	return nil
}

func slotMoved(before booking.FreedSlot, b *booking.Booking) bool {
	if !before.Window.Equal(b.Window()) {
		return true
	}
	after := b.StaffID()
	switch {
	case before.StaffID == nil && after == nil:
		return false
	case before.StaffID == nil || after == nil:
		return true
	default:
		return *before.StaffID != *after
	}
}
