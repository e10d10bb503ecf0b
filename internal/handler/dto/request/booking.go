package request

import (
	"strings"

	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	BranchID        uuid.UUID        `json:"branch_id" binding:"required"`
	ServiceID       uuid.UUID        `json:"service_id" binding:"required"`
	ServiceOptionID *uuid.UUID       `json:"service_option_id,omitempty"`
	CustomerID      uuid.UUID        `json:"customer_id" binding:"required"`
	StaffID         *uuid.UUID       `json:"staff_id,omitempty"`
	ResourceIDs     []uuid.UUID      `json:"resource_ids,omitempty"`
	Window          WindowRequest    `json:"window" binding:"required"`
	ServiceTotal    *decimal.Decimal `json:"service_total" binding:"required"`
	Note            string           `json:"note,omitempty"`
}

func (r CreateBookingRequest) ToInput() (commands.CreateBookingInput, error) {
	w, err := r.Window.ToDomain()
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	return commands.CreateBookingInput{
		BranchID:        r.BranchID,
		ServiceID:       r.ServiceID,
		ServiceOptionID: r.ServiceOptionID,
		CustomerID:      r.CustomerID,
		StaffID:         r.StaffID,
		ResourceIDs:     r.ResourceIDs,
		Window:          w,
		ServiceTotal:    *r.ServiceTotal,
		Note:            strings.TrimSpace(r.Note),
	}, nil
}

type UpdateBookingRequest struct {
	Window       *WindowRequest   `json:"window,omitempty"`
	StaffID      *uuid.UUID       `json:"staff_id,omitempty"`
	ClearStaff   bool             `json:"clear_staff,omitempty"`
	ServiceTotal *decimal.Decimal `json:"service_total,omitempty"`
	Note         *string          `json:"note,omitempty"`
}

// ToUpdate picks the narrowest update variant that carries every field present.
// Whether the caller may submit it is decided by the usecase.
func (r UpdateBookingRequest) ToUpdate() (commands.BookingUpdate, error) {
	var w *window.Window
	if r.Window != nil {
		parsed, err := r.Window.ToDomain()
		if err != nil {
			return nil, err
		}
		w = &parsed
	}

	switch {
	case r.ServiceTotal != nil:
		return commands.AdminBookingUpdate{
			Window:       w,
			StaffID:      r.StaffID,
			ClearStaff:   r.ClearStaff,
			ServiceTotal: r.ServiceTotal,
			Note:         r.Note,
		}, nil
	case w != nil || r.StaffID != nil || r.ClearStaff:
		return commands.BranchAdminBookingUpdate{
			Window:     w,
			StaffID:    r.StaffID,
			ClearStaff: r.ClearStaff,
			Note:       r.Note,
		}, nil
	default:
		return commands.StaffBookingUpdate{Note: r.Note}, nil
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ProductLineRequest struct {
	ProductID *uuid.UUID       `json:"product_id"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Total     *decimal.Decimal `json:"total"`
}

type PaymentLineRequest struct {
	Method *string          `json:"method"`
	Amount *decimal.Decimal `json:"amount"`
}

// CompleteBookingRequest is validated by the settlement validator, not by binding tags,
// so that every problem comes back as a field-scoped violation.
type CompleteBookingRequest struct {
	Outcome      *string              `json:"outcome"`
	ServiceTotal *decimal.Decimal     `json:"service_total,omitempty"`
	Products     []ProductLineRequest `json:"products"`
	Payments     []PaymentLineRequest `json:"payments"`
	Note         string               `json:"note,omitempty"`
}

// ToInput returns a PricedCompletion when a service total is supplied and a
// StandardCompletion otherwise.
func (r CompleteBookingRequest) ToInput() commands.CompletionInput {
	var outcome *settlement.Outcome
	if r.Outcome != nil {
		o := settlement.Outcome(*r.Outcome)
		outcome = &o
	}

	products := make([]settlement.ProductLine, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, settlement.ProductLine{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Total:     p.Total,
		})
	}

	payments := make([]settlement.PaymentLine, 0, len(r.Payments))
	for _, p := range r.Payments {
		var method *settlement.PaymentMethod
		if p.Method != nil {
			m := settlement.PaymentMethod(*p.Method)
			method = &m
		}
		payments = append(payments, settlement.PaymentLine{Method: method, Amount: p.Amount})
	}

	note := strings.TrimSpace(r.Note)
	if r.ServiceTotal != nil {
		return commands.PricedCompletion{
			Outcome:      outcome,
			ServiceTotal: r.ServiceTotal,
			Products:     products,
			Payments:     payments,
			Note:         note,
		}
	}
	return commands.StandardCompletion{
		Outcome:  outcome,
		Products: products,
		Payments: payments,
		Note:     note,
	}
}
