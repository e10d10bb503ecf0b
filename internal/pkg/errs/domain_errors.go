package errs

import "errors"

// Error kinds shared by the engine's usecases and handlers
var (
	// Completion errors
	ErrInvalidCompletionData = errors.New("invalid completion data")
	ErrPaymentMismatch       = errors.New("payment mismatch")
	ErrAlreadySettled        = errors.New("booking already settled")

	// Availability errors
	ErrConflict                 = errors.New("reservation conflict")
	ErrCapacityBelowAllocations = errors.New("capacity below active allocations")

	// Lookup errors
	ErrNotFound = errors.New("not found")

	// Caller errors
	ErrForbidden    = errors.New("operation not permitted for caller")
	ErrInvalidState = errors.New("invalid state transition")
	ErrInvalidInput = errors.New("invalid input")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrLockUnavailable         = errors.New("lock unavailable")
)
