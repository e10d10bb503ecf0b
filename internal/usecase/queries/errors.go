package queries

import (
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func readErr(err error, what string) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(errs.Wrap(err, what+" not found"), errs.ErrNotFound)
	}
	return errs.Mark(errs.Wrap(err, "failed to read "+what), errs.ErrDatabaseOperationFailed)
}

func forbidden(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrForbidden)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
