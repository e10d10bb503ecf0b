package commands

import (
	"errors"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
)

// repoErr translates repository failures into engine error kinds.
func repoErr(err error, what string) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(errs.Wrap(err, what+" not found"), errs.ErrNotFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(errs.Wrap(err, what+" changed concurrently"), errs.ErrInvalidState)
	case errs.Is(err, errs.ErrNotFound), errs.Is(err, errs.ErrInvalidState):
		return err
	default:
		return errs.Mark(errs.Wrap(err, what), errs.ErrDatabaseOperationFailed)
	}
}

func indexErr(err error) error {
	switch {
	case errors.Is(err, availability.ErrConflict):
		return errs.Mark(err, errs.ErrConflict)
	case errors.Is(err, availability.ErrUnknownResource):
		return errs.Mark(err, errs.ErrNotFound)
	case errors.Is(err, availability.ErrCapacityBelowAllocations):
		return errs.Mark(err, errs.ErrCapacityBelowAllocations)
	default:
		return errs.Mark(err, errs.ErrInvalidInput)
	}
}

// domainErr classifies entity rule violations; anything not a state error is bad input.
func domainErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrAlreadySettled):
		return errs.Mark(err, errs.ErrAlreadySettled)
	case errors.Is(err, booking.ErrNotScheduled), errors.Is(err, waitlist.ErrEntryClosed):
		return errs.Mark(err, errs.ErrInvalidState)
	default:
		return errs.Mark(err, errs.ErrInvalidInput)
	}
}

func forbidden(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrForbidden)
}
