package middleware

import "booking-engine/internal/pkg/errs"

var (
	errMissingToken     = errs.New("missing access token")
	errMissingActor     = errs.New("actor not found in context")
	errInsufficientRole = errs.New("insufficient role")
	errRateLimited      = errs.New("rate limit exceeded")
)
