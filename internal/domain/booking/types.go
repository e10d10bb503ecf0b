package booking

import (
	"slices"

	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusNoShow, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the booking no longer occupies its slot.
func (s Status) IsFinal() bool {
	return s != StatusScheduled
}

// FreedSlot describes the time and assignment a booking gave back.
type FreedSlot struct {
	BookingID       uuid.UUID
	BranchID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceOptionID *uuid.UUID
	StaffID         *uuid.UUID
	ResourceIDs     []uuid.UUID
	Window          window.Window
	ServiceTotal    decimal.Decimal
}

// WithWindow returns a copy of the slot narrowed or moved to w.
func (f FreedSlot) WithWindow(w window.Window) FreedSlot {
	f.ResourceIDs = slices.Clone(f.ResourceIDs)
	f.Window = w
	return f
}
