package request

import (
	"strings"

	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateWaitlistEntryRequest struct {
	BranchID        uuid.UUID     `json:"branch_id" binding:"required"`
	ServiceID       uuid.UUID     `json:"service_id" binding:"required"`
	ServiceOptionID *uuid.UUID    `json:"service_option_id,omitempty"`
	StaffID         *uuid.UUID    `json:"staff_id,omitempty"`
	CustomerID      uuid.UUID     `json:"customer_id" binding:"required"`
	Desired         WindowRequest `json:"desired" binding:"required"`
	Comments        string        `json:"comments,omitempty"`
	AutoBook        bool          `json:"auto_book"`
}

func (r CreateWaitlistEntryRequest) ToInput() (commands.CreateWaitlistEntryInput, error) {
	desired, err := r.Desired.ToDomain()
	if err != nil {
		return commands.CreateWaitlistEntryInput{}, err
	}
	return commands.CreateWaitlistEntryInput{
		BranchID:        r.BranchID,
		ServiceID:       r.ServiceID,
		ServiceOptionID: r.ServiceOptionID,
		StaffID:         r.StaffID,
		CustomerID:      r.CustomerID,
		Desired:         desired,
		Comments:        strings.TrimSpace(r.Comments),
		AutoBook:        r.AutoBook,
	}, nil
}

type ListWaitlistQuery struct {
	BranchID string `form:"branch_id" binding:"required"`
	Status   string `form:"status"`
	Limit    int    `form:"limit"`
}
