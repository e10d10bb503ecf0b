package api

import (
	"errors"
	"net/http"

	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingActor = errs.New("actor missing from request context")

type paymentMismatchDetail struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// abortWithEngineError maps engine error kinds onto HTTP statuses.
func abortWithEngineError(c *gin.Context, err error) {
	var validation *settlement.ValidationError
	var mismatch *settlement.PaymentMismatchError

	switch {
	case errors.As(err, &validation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid completion data", validation.Violations)
	case errors.As(err, &mismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment mismatch", paymentMismatchDetail{
			Expected: mismatch.Expected.StringFixed(settlement.MinorUnitDigits),
			Actual:   mismatch.Actual.StringFixed(settlement.MinorUnitDigits),
		})
	case errs.Is(err, errs.ErrInvalidCompletionData):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid completion data", nil)
	case errs.Is(err, errs.ErrPaymentMismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment mismatch", nil)
	case errs.Is(err, errs.ErrAlreadySettled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking already settled", nil)
	case errs.Is(err, errs.ErrConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Slot is not available", nil)
	case errs.Is(err, errs.ErrCapacityBelowAllocations):
		httperr.AbortWithError(c, http.StatusConflict, err, "Capacity below active allocations", nil)
	case errs.Is(err, errs.ErrInvalidState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Invalid state", nil)
	case errs.Is(err, errs.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errs.Is(err, errs.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	case errs.Is(err, errs.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errs.Is(err, errs.ErrLockUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Booking is busy, retry later", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}

func requireActor(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
	}
	return actor, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
