package response

import (
	"time"

	"booking-engine/internal/domain/waitlist"

	"github.com/google/uuid"
)

type WaitlistEntryResponse struct {
	ID               uuid.UUID      `json:"id"`
	BranchID         uuid.UUID      `json:"branch_id"`
	ServiceID        uuid.UUID      `json:"service_id"`
	ServiceOptionID  *uuid.UUID     `json:"service_option_id,omitempty"`
	StaffID          *uuid.UUID     `json:"staff_id,omitempty"`
	CustomerID       uuid.UUID      `json:"customer_id"`
	Desired          WindowResponse `json:"desired"`
	Comments         string         `json:"comments,omitempty"`
	AutoBook         bool           `json:"auto_book"`
	Status           string         `json:"status"`
	MatchedBookingID *uuid.UUID     `json:"matched_booking_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func FromWaitlistEntry(e *waitlist.Entry) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:               e.ID(),
		BranchID:         e.BranchID(),
		ServiceID:        e.ServiceID(),
		ServiceOptionID:  e.ServiceOptionID(),
		StaffID:          e.StaffID(),
		CustomerID:       e.CustomerID(),
		Desired:          FromWindow(e.Desired()),
		Comments:         e.Comments(),
		AutoBook:         e.AutoBook(),
		Status:           string(e.Status()),
		MatchedBookingID: e.MatchedBooking(),
		CreatedAt:        e.CreatedAt(),
		UpdatedAt:        e.UpdatedAt(),
	}
}

func FromWaitlistEntries(entries []*waitlist.Entry) []*WaitlistEntryResponse {
	res := make([]*WaitlistEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = FromWaitlistEntry(e)
	}
	return res
}
