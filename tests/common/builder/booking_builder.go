//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/window"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingBuilder struct {
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

func NewBookingBuilder() *BookingBuilder {
	staffID := uuid.New()
	return &BookingBuilder{
		BranchID:     uuid.New(),
		ServiceID:    uuid.New(),
		CustomerID:   uuid.New(),
		StaffID:      &staffID,
		Window:       Window(10, 0, 11, 0),
		ServiceTotal: decimal.RequireFromString("40.00"),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildParams() booking.NewParams {
	return booking.NewParams{
		BranchID:        b.BranchID,
		ServiceID:       b.ServiceID,
		ServiceOptionID: b.ServiceOptionID,
		CustomerID:      b.CustomerID,
		StaffID:         b.StaffID,
		ResourceIDs:     b.ResourceIDs,
		Window:          b.Window,
		ServiceTotal:    b.ServiceTotal,
		Note:            b.Note,
	}
}

func (b *BookingBuilder) BuildDomain(now time.Time) (*booking.Booking, error) {
	return booking.NewBooking(b.BuildParams(), now)
}

func (b *BookingBuilder) BuildCreateInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		BranchID:        b.BranchID,
		ServiceID:       b.ServiceID,
		ServiceOptionID: b.ServiceOptionID,
		CustomerID:      b.CustomerID,
		StaffID:         b.StaffID,
		ResourceIDs:     b.ResourceIDs,
		Window:          b.Window,
		ServiceTotal:    b.ServiceTotal,
		Note:            b.Note,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	total := b.ServiceTotal
	return reqdto.CreateBookingRequest{
		BranchID:        b.BranchID,
		ServiceID:       b.ServiceID,
		ServiceOptionID: b.ServiceOptionID,
		CustomerID:      b.CustomerID,
		StaffID:         b.StaffID,
		ResourceIDs:     b.ResourceIDs,
		Window:          reqdto.WindowRequest{From: b.Window.From(), To: b.Window.To()},
		ServiceTotal:    &total,
		Note:            b.Note,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithBranch(branchID uuid.UUID) *BookingBuilder {
	b.BranchID = branchID
	return b
}

func (b *BookingBuilder) WithService(serviceID uuid.UUID) *BookingBuilder {
	b.ServiceID = serviceID
	return b
}

func (b *BookingBuilder) WithStaff(staffID uuid.UUID) *BookingBuilder {
	b.StaffID = &staffID
	return b
}

func (b *BookingBuilder) WithoutStaff() *BookingBuilder {
	b.StaffID = nil
	return b
}

func (b *BookingBuilder) WithResources(ids ...uuid.UUID) *BookingBuilder {
	b.ResourceIDs = ids
	return b
}

func (b *BookingBuilder) WithWindow(w window.Window) *BookingBuilder {
	b.Window = w
	return b
}

func (b *BookingBuilder) WithServiceTotal(total string) *BookingBuilder {
	b.ServiceTotal = decimal.RequireFromString(total)
	return b
}
