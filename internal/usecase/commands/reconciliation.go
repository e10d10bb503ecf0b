package commands

import (
	"context"
	"errors"
	"log/slog"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Reconciliation is a durable settlement together with the slot it released.
type Reconciliation struct {
	Settlement *settlement.Settlement
	Freed      booking.FreedSlot
}

type Reconciler struct {
	uow     shared.UnitOfWork
	locker  shared.BookingLocker
	clock   clock.Clock
	metrics shared.EngineMetrics
	logger  *slog.Logger
}

func NewReconciler(
	uow shared.UnitOfWork,
	locker shared.BookingLocker,
	clock clock.Clock,
	metrics shared.EngineMetrics,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		uow:     uow,
		locker:  locker,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Reconcile settles a booking at most once. Nothing is written when it fails, and the
// freed slot is only returned once the settlement has been committed. A request
// without a service total settles at the price read from the locked booking row.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	bookingID uuid.UUID,
	req settlement.CompletionRequest,
) (*Reconciliation, error) {
	now := r.clock.Now()

	release, err := r.locker.Acquire(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLockUnavailable)
	}
	defer release()

	var (
		s     *settlement.Settlement
		freed booking.FreedSlot
	)
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return repoErr(err, "booking")
		}
		if s, err = settlement.Reconcile(bookingID, b.ServiceTotal(), req, now); err != nil {
			return r.rejected(bookingID, err)
		}
		if err := b.Settle(s.Status(), now); err != nil {
			return domainErr(err)
		}
		if err := tx.Settlements().Create(ctx, s); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrAlreadySettled)
			}
			return repoErr(err, "settlement")
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return repoErr(err, "booking")
		}
		freed = b.Freed()
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrAlreadySettled) {
			r.metrics.CompletionRejected("already_settled")
		}
		return nil, err
	}

	r.metrics.SettlementRecorded(s.Status().String())
	r.logger.Info("booking settled",
		slog.String("booking_id", bookingID.String()),
		slog.String("status", s.Status().String()),
		slog.String("grand_total", s.GrandTotal().StringFixed(settlement.MinorUnitDigits)))

	return &Reconciliation{Settlement: s, Freed: freed}, nil
}

func (r *Reconciler) rejected(bookingID uuid.UUID, err error) error {
	var validationErr *settlement.ValidationError
	var mismatchErr *settlement.PaymentMismatchError

	switch {
	case errors.As(err, &validationErr):
		r.metrics.CompletionRejected("invalid_data")
		r.logger.Info("completion rejected",
			slog.String("booking_id", bookingID.String()),
			slog.Int("violations", len(validationErr.Violations)))
		return errs.Mark(err, errs.ErrInvalidCompletionData)
	case errors.As(err, &mismatchErr):
		r.metrics.CompletionRejected("payment_mismatch")
		r.logger.Info("completion rejected",
			slog.String("booking_id", bookingID.String()),
			slog.String("expected", mismatchErr.Expected.String()),
			slog.String("actual", mismatchErr.Actual.String()))
		return errs.Mark(err, errs.ErrPaymentMismatch)
	default:
		return errs.Mark(err, errs.ErrInvalidCompletionData)
	}
}
