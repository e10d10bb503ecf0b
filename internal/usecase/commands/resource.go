package commands

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceCommands interface {
	CreateResource(ctx context.Context, actor user.Actor, input CreateResourceInput) (*resource.Resource, error)
	UpdateResource(ctx context.Context, actor user.Actor, resourceID uuid.UUID, input UpdateResourceInput) (*resource.Resource, error)
}

type resourceUseCaseImpl struct {
	uow    shared.UnitOfWork
	index  shared.AvailabilityIndex
	clock  clock.Clock
	logger *slog.Logger
}

func NewResourceUseCase(uow shared.UnitOfWork, index shared.AvailabilityIndex, clock clock.Clock, logger *slog.Logger) ResourceCommands {
	return &resourceUseCaseImpl{
		uow:    uow,
		index:  index,
		clock:  clock,
		logger: logger,
	}
}

func (r *resourceUseCaseImpl) CreateResource(ctx context.Context, actor user.Actor, input CreateResourceInput) (*resource.Resource, error) {
	if !actor.IsAdmin() || !actor.CanAccessBranch(input.BranchID) {
		return nil, forbidden("only branch admins may register resources")
	}

	res, err := resource.NewResource(input.BranchID, input.Name, input.TotalQuantity, r.clock.Now())
	if err != nil {
		return nil, domainErr(err)
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Resources().Create(ctx, res); err != nil {
			return repoErr(err, "resource")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.index.SetCapacity(res.BranchID(), res.ID(), res.TotalQuantity()); err != nil {
		return nil, indexErr(err)
	}
	return res, nil
}

// UpdateResource adjusts the index capacity before writing, so a quantity below the
// current allocations is refused without touching storage.
func (r *resourceUseCaseImpl) UpdateResource(
	ctx context.Context,
	actor user.Actor,
	resourceID uuid.UUID,
	input UpdateResourceInput,
) (*resource.Resource, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only branch admins may change resources")
	}

	var (
		updated  *resource.Resource
		branchID uuid.UUID
		previous int
		resized  bool
	)
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Resources().FindByID(ctx, resourceID)
		if err != nil {
			return repoErr(err, "resource")
		}
		if !actor.CanAccessBranch(res.BranchID()) {
			return forbidden("resource belongs to another branch")
		}
		branchID = res.BranchID()

		now := r.clock.Now()
		if input.Name != nil {
			if err := res.Rename(*input.Name, now); err != nil {
				return domainErr(err)
			}
		}
		if input.TotalQuantity != nil && *input.TotalQuantity != res.TotalQuantity() {
			previous = res.TotalQuantity()
			if err := res.ChangeTotalQuantity(*input.TotalQuantity, now); err != nil {
				return domainErr(err)
			}
			if err := r.index.SetCapacity(res.BranchID(), res.ID(), res.TotalQuantity()); err != nil {
				return indexErr(err)
			}
			resized = true
		}

		if err := tx.Resources().Update(ctx, res); err != nil {
			return repoErr(err, "resource")
		}
		updated = res
		return nil
	})
	if err != nil {
		if resized {
			if rerr := r.index.SetCapacity(branchID, resourceID, previous); rerr != nil {
				r.logger.Error("failed to restore resource capacity",
					slog.String("resource_id", resourceID.String()),
					slog.String("error", rerr.Error()))
			}
		}
		return nil, err
	}

	r.logger.Info("resource updated",
		slog.String("resource_id", resourceID.String()),
		slog.Int("total_quantity", updated.TotalQuantity()))
	return updated, nil
}
