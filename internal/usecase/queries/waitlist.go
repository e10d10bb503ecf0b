package queries

import (
	"context"

	"booking-engine/internal/domain/user"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaitlistQueries interface {
	GetEntry(ctx context.Context, actor user.Actor, id uuid.UUID) (*waitlist.Entry, error)
	ListEntries(ctx context.Context, actor user.Actor, branchID uuid.UUID, status *waitlist.Status, limit int) ([]*waitlist.Entry, error)
}

type waitlistQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewWaitlistQueries(uow shared.UnitOfWork) WaitlistQueries {
	return &waitlistQueriesImpl{uow: uow}
}

func (q *waitlistQueriesImpl) GetEntry(ctx context.Context, actor user.Actor, id uuid.UUID) (*waitlist.Entry, error) {
	var e *waitlist.Entry
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		e, err = tx.Waitlist().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, readErr(err, "waitlist entry")
	}
	if !actor.CanAccessBranch(e.BranchID()) {
		return nil, forbidden("waitlist entry belongs to another branch")
	}
	return e, nil
}

// ListEntries returns entries in queue order (oldest first).
func (q *waitlistQueriesImpl) ListEntries(
	ctx context.Context,
	actor user.Actor,
	branchID uuid.UUID,
	status *waitlist.Status,
	limit int,
) ([]*waitlist.Entry, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, forbidden("cannot list another branch's waitlist")
	}

	var entries []*waitlist.Entry
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entries, err = tx.Waitlist().List(ctx, shared.WaitlistFilter{
			BranchID: branchID,
			Status:   status,
			Limit:    clampLimit(limit),
		})
		return err
	})
	if err != nil {
		return nil, readErr(err, "waitlist")
	}
	return entries, nil
}
