package commands

import (
	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=../../../tests/mock/commands/commands.go -package=commandsmock booking-engine/internal/usecase/commands BookingCommands,LifecycleCommands,ResourceCommands,WaitlistCommands

// Write-side inputs are decoupled from transport DTOs; handlers translate into these.

type CreateBookingInput struct {
	BranchID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceOptionID *uuid.UUID
	CustomerID      uuid.UUID
	StaffID         *uuid.UUID
	ResourceIDs     []uuid.UUID
	Window          window.Window
	ServiceTotal    decimal.Decimal
	Note            string
}

type CreateWaitlistEntryInput struct {
	BranchID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceOptionID *uuid.UUID
	StaffID         *uuid.UUID
	CustomerID      uuid.UUID
	Desired         window.Window
	Comments        string
	AutoBook        bool
}

type CreateResourceInput struct {
	BranchID      uuid.UUID
	Name          string
	TotalQuantity int
}

type UpdateResourceInput struct {
	Name          *string
	TotalQuantity *int
}

// slotRefs lists the index keys a booking occupies.
func slotRefs(staffID *uuid.UUID, resourceIDs []uuid.UUID) []availability.Ref {
	refs := make([]availability.Ref, 0, len(resourceIDs)+1)
	if staffID != nil {
		refs = append(refs, availability.Staff(*staffID))
	}
	for _, id := range resourceIDs {
		refs = append(refs, availability.Resource(id))
	}
	return refs
}

func freedRefs(slot booking.FreedSlot) []availability.Ref {
	return slotRefs(slot.StaffID, slot.ResourceIDs)
}
