package commands

import (
	"context"
	"errors"
	"log/slog"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompletionInput is a role-tagged completion payload.
type CompletionInput interface {
	permits(role user.Role) bool
	request() settlement.CompletionRequest
}

// StandardCompletion settles at the booked service price. Any role may submit it.
type StandardCompletion struct {
	Outcome  *settlement.Outcome
	Products []settlement.ProductLine
	Payments []settlement.PaymentLine
	Note     string
}

func (StandardCompletion) permits(user.Role) bool { return true }

func (c StandardCompletion) request() settlement.CompletionRequest {
	return settlement.CompletionRequest{
		Outcome:  c.Outcome,
		Products: c.Products,
		Payments: c.Payments,
		Note:     c.Note,
	}
}

// PricedCompletion may override the service total. Restricted to admins.
type PricedCompletion struct {
	Outcome      *settlement.Outcome
	ServiceTotal *decimal.Decimal
	Products     []settlement.ProductLine
	Payments     []settlement.PaymentLine
	Note         string
}

func (PricedCompletion) permits(role user.Role) bool {
	return role == user.RoleAdmin || role == user.RoleAdminBranch
}

func (c PricedCompletion) request() settlement.CompletionRequest {
	return settlement.CompletionRequest{
		Outcome:      c.Outcome,
		ServiceTotal: c.ServiceTotal,
		Products:     c.Products,
		Payments:     c.Payments,
		Note:         c.Note,
	}
}

type CompletionResult struct {
	Settlement *settlement.Settlement
	Matches    []MatchOutcome
}

type CancellationResult struct {
	Booking *booking.Booking
	Matches []MatchOutcome
}

type LifecycleCommands interface {
	CompleteBooking(ctx context.Context, actor user.Actor, bookingID uuid.UUID, input CompletionInput) (*CompletionResult, error)
	CancelBooking(ctx context.Context, actor user.Actor, bookingID uuid.UUID, reason string) (*CancellationResult, error)
}

type lifecycleUseCaseImpl struct {
	uow        shared.UnitOfWork
	index      shared.AvailabilityIndex
	reconciler *Reconciler
	matcher    *Matcher
	locker     shared.BookingLocker
	clock      clock.Clock
	logger     *slog.Logger
}

func NewLifecycleUseCase(
	uow shared.UnitOfWork,
	index shared.AvailabilityIndex,
	reconciler *Reconciler,
	matcher *Matcher,
	locker shared.BookingLocker,
	clock clock.Clock,
	logger *slog.Logger,
) LifecycleCommands {
	return &lifecycleUseCaseImpl{
		uow:        uow,
		index:      index,
		reconciler: reconciler,
		matcher:    matcher,
		locker:     locker,
		clock:      clock,
		logger:     logger,
	}
}

func (l *lifecycleUseCaseImpl) CompleteBooking(
	ctx context.Context,
	actor user.Actor,
	bookingID uuid.UUID,
	input CompletionInput,
) (*CompletionResult, error) {
	if input == nil {
		return nil, errs.Mark(errs.New("completion payload is required"), errs.ErrInvalidCompletionData)
	}
	if !input.permits(actor.Role) {
		return nil, forbidden("role may not submit this completion payload")
	}

	if _, err := l.loadForActor(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	rec, err := l.reconciler.Reconcile(ctx, bookingID, input.request())
	if err != nil {
		return nil, err
	}

	l.index.Release(bookingID)

	return &CompletionResult{
		Settlement: rec.Settlement,
		Matches:    l.match(ctx, rec.Freed),
	}, nil
}

func (l *lifecycleUseCaseImpl) CancelBooking(
	ctx context.Context,
	actor user.Actor,
	bookingID uuid.UUID,
	reason string,
) (*CancellationResult, error) {
	if _, err := l.loadForActor(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	release, err := l.locker.Acquire(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLockUnavailable)
	}
	defer release()

	var cancelled *booking.Booking
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return repoErr(err, "booking")
		}
		if err := b.Cancel(l.clock.Now()); err != nil {
			return domainErr(err)
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return repoErr(err, "booking")
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.index.Release(bookingID)
	l.logger.Info("booking cancelled",
		slog.String("booking_id", bookingID.String()),
		slog.String("actor_id", actor.UserID.String()),
		slog.String("reason", reason))

	return &CancellationResult{
		Booking: cancelled,
		Matches: l.match(ctx, cancelled.Freed()),
	}, nil
}

func (l *lifecycleUseCaseImpl) loadForActor(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	var b *booking.Booking
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		b, err = tx.Bookings().FindByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, repoErr(err, "booking")
	}
	if !actor.CanAccessBranch(b.BranchID()) {
		return nil, forbidden("booking belongs to another branch")
	}
	return b, nil
}

// match never fails the caller: the freed slot is already durable.
func (l *lifecycleUseCaseImpl) match(ctx context.Context, slot booking.FreedSlot) []MatchOutcome {
	outcomes, err := l.matcher.OnSlotFreed(ctx, slot)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelInfo
		}
		l.logger.Log(ctx, level, "waitlist matching interrupted",
			slog.String("booking_id", slot.BookingID.String()),
			slog.Int("matched", len(outcomes)),
			slog.String("error", err.Error()))
	}
	if outcomes == nil {
		outcomes = []MatchOutcome{}
	}
	return outcomes
}
