//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/domain/window"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type WaitlistBuilder struct {
	BranchID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceOptionID *uuid.UUID
	StaffID         *uuid.UUID
	CustomerID      uuid.UUID
	Desired         window.Window
	Comments        string
	AutoBook        bool
}

func NewWaitlistBuilder() *WaitlistBuilder {
	return &WaitlistBuilder{
		BranchID:   uuid.New(),
		ServiceID:  uuid.New(),
		CustomerID: uuid.New(),
		Desired:    Window(10, 0, 11, 0),
		AutoBook:   true,
	}
}

// ForSlot copies branch and service from a booking builder so the entry is eligible for its slot.
func (w *WaitlistBuilder) ForSlot(b *BookingBuilder) *WaitlistBuilder {
	w.BranchID = b.BranchID
	w.ServiceID = b.ServiceID
	return w
}

func (w *WaitlistBuilder) With(mutate func(*WaitlistBuilder)) *WaitlistBuilder {
	mutate(w)
	return w
}

// Build methods
func (w *WaitlistBuilder) BuildParams() waitlist.NewParams {
	return waitlist.NewParams{
		BranchID:        w.BranchID,
		ServiceID:       w.ServiceID,
		ServiceOptionID: w.ServiceOptionID,
		StaffID:         w.StaffID,
		CustomerID:      w.CustomerID,
		Desired:         w.Desired,
		Comments:        w.Comments,
		AutoBook:        w.AutoBook,
	}
}

func (w *WaitlistBuilder) BuildDomain(now time.Time) (*waitlist.Entry, error) {
	return waitlist.NewEntry(w.BuildParams(), now)
}

func (w *WaitlistBuilder) BuildCreateInput() commands.CreateWaitlistEntryInput {
	return commands.CreateWaitlistEntryInput{
		BranchID:        w.BranchID,
		ServiceID:       w.ServiceID,
		ServiceOptionID: w.ServiceOptionID,
		StaffID:         w.StaffID,
		CustomerID:      w.CustomerID,
		Desired:         w.Desired,
		Comments:        w.Comments,
		AutoBook:        w.AutoBook,
	}
}

func (w *WaitlistBuilder) BuildCreateRequestDTO() reqdto.CreateWaitlistEntryRequest {
	return reqdto.CreateWaitlistEntryRequest{
		BranchID:        w.BranchID,
		ServiceID:       w.ServiceID,
		ServiceOptionID: w.ServiceOptionID,
		StaffID:         w.StaffID,
		CustomerID:      w.CustomerID,
		Desired:         reqdto.WindowRequest{From: w.Desired.From(), To: w.Desired.To()},
		Comments:        w.Comments,
		AutoBook:        w.AutoBook,
	}
}

// Fluent builder methods
func (w *WaitlistBuilder) WithDesired(d window.Window) *WaitlistBuilder {
	w.Desired = d
	return w
}

func (w *WaitlistBuilder) WithStaff(staffID uuid.UUID) *WaitlistBuilder {
	w.StaffID = &staffID
	return w
}

func (w *WaitlistBuilder) WithOption(optionID uuid.UUID) *WaitlistBuilder {
	w.ServiceOptionID = &optionID
	return w
}

func (w *WaitlistBuilder) ProposalOnly() *WaitlistBuilder {
	w.AutoBook = false
	return w
}
