package commands

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/user"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaitlistCommands interface {
	CreateEntry(ctx context.Context, actor user.Actor, input CreateWaitlistEntryInput) (*waitlist.Entry, error)
	CancelEntry(ctx context.Context, actor user.Actor, entryID uuid.UUID) (*waitlist.Entry, error)
}

type waitlistUseCaseImpl struct {
	uow    shared.UnitOfWork
	gate   shared.FeatureGate
	clock  clock.Clock
	logger *slog.Logger
}

func NewWaitlistUseCase(uow shared.UnitOfWork, gate shared.FeatureGate, clock clock.Clock, logger *slog.Logger) WaitlistCommands {
	return &waitlistUseCaseImpl{
		uow:    uow,
		gate:   gate,
		clock:  clock,
		logger: logger,
	}
}

func (w *waitlistUseCaseImpl) CreateEntry(ctx context.Context, actor user.Actor, input CreateWaitlistEntryInput) (*waitlist.Entry, error) {
	if !actor.CanAccessBranch(input.BranchID) {
		return nil, forbidden("cannot add waitlist entries for another branch")
	}
	if !w.gate.Allowed(ctx, input.BranchID, shared.FeatureWaitlist) {
		return nil, forbidden("waitlist is not included in the branch plan")
	}

	e, err := waitlist.NewEntry(waitlist.NewParams{
		BranchID:        input.BranchID,
		ServiceID:       input.ServiceID,
		ServiceOptionID: input.ServiceOptionID,
		StaffID:         input.StaffID,
		CustomerID:      input.CustomerID,
		Desired:         input.Desired,
		Comments:        input.Comments,
		AutoBook:        input.AutoBook,
	}, w.clock.Now())
	if err != nil {
		return nil, domainErr(err)
	}

	err = w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Waitlist().Create(ctx, e); err != nil {
			return repoErr(err, "waitlist entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("waitlist entry created",
		slog.String("entry_id", e.ID().String()),
		slog.String("branch_id", e.BranchID().String()),
		slog.Bool("auto_book", e.AutoBook()))
	return e, nil
}

func (w *waitlistUseCaseImpl) CancelEntry(ctx context.Context, actor user.Actor, entryID uuid.UUID) (*waitlist.Entry, error) {
	var cancelled *waitlist.Entry
	err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Waitlist().FindByID(ctx, entryID)
		if err != nil {
			return repoErr(err, "waitlist entry")
		}
		if !actor.CanAccessBranch(e.BranchID()) {
			return forbidden("waitlist entry belongs to another branch")
		}
		if err := e.Cancel(w.clock.Now()); err != nil {
			return domainErr(err)
		}
		if err := tx.Waitlist().UpdateStatus(ctx, e, waitlist.StatusActive); err != nil {
			return repoErr(err, "waitlist entry")
		}
		cancelled = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
