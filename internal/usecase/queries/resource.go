package queries

import (
	"context"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceQueries interface {
	GetResource(ctx context.Context, actor user.Actor, id uuid.UUID) (*resource.Resource, error)
	ListResources(ctx context.Context, actor user.Actor, branchID uuid.UUID) ([]*resource.Resource, error)
	Occupancy(ctx context.Context, actor user.Actor, branchID uuid.UUID, ref availability.Ref, w window.Window) (availability.Occupancy, error)
}

type resourceQueriesImpl struct {
	uow   shared.UnitOfWork
	index shared.AvailabilityIndex
}

func NewResourceQueries(uow shared.UnitOfWork, index shared.AvailabilityIndex) ResourceQueries {
	return &resourceQueriesImpl{uow: uow, index: index}
}

func (q *resourceQueriesImpl) GetResource(ctx context.Context, actor user.Actor, id uuid.UUID) (*resource.Resource, error) {
	var res *resource.Resource
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		res, err = tx.Resources().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, readErr(err, "resource")
	}
	if !actor.CanAccessBranch(res.BranchID()) {
		return nil, forbidden("resource belongs to another branch")
	}
	return res, nil
}

func (q *resourceQueriesImpl) ListResources(ctx context.Context, actor user.Actor, branchID uuid.UUID) ([]*resource.Resource, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, forbidden("cannot list another branch's resources")
	}

	var list []*resource.Resource
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		list, err = tx.Resources().ListByBranch(ctx, branchID)
		return err
	})
	if err != nil {
		return nil, readErr(err, "resources")
	}
	return list, nil
}

// Occupancy reports the peak usage of ref within w straight from the availability index.
func (q *resourceQueriesImpl) Occupancy(
	_ context.Context,
	actor user.Actor,
	branchID uuid.UUID,
	ref availability.Ref,
	w window.Window,
) (availability.Occupancy, error) {
	if !actor.CanAccessBranch(branchID) {
		return availability.Occupancy{}, forbidden("cannot inspect another branch")
	}
	occ, err := q.index.Occupancy(branchID, ref, w)
	if err != nil {
		return availability.Occupancy{}, errs.Mark(err, errs.ErrNotFound)
	}
	return occ, nil
}
