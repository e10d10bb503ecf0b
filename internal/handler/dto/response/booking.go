package response

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type WindowResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func FromWindow(w window.Window) WindowResponse {
	return WindowResponse{From: w.From(), To: w.To()}
}

type BookingResponse struct {
	ID              uuid.UUID      `json:"id"`
	BranchID        uuid.UUID      `json:"branch_id"`
	ServiceID       uuid.UUID      `json:"service_id"`
	ServiceOptionID *uuid.UUID     `json:"service_option_id,omitempty"`
	CustomerID      uuid.UUID      `json:"customer_id"`
	StaffID         *uuid.UUID     `json:"staff_id,omitempty"`
	ResourceIDs     []uuid.UUID    `json:"resource_ids"`
	Window          WindowResponse `json:"window"`
	ServiceTotal    string         `json:"service_total"`
	Status          string         `json:"status"`
	Note            string         `json:"note,omitempty"`
	WaitlistEntryID *uuid.UUID     `json:"waitlist_entry_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	resourceIDs := b.ResourceIDs()
	if resourceIDs == nil {
		resourceIDs = []uuid.UUID{}
	}
	return &BookingResponse{
		ID:              b.ID(),
		BranchID:        b.BranchID(),
		ServiceID:       b.ServiceID(),
		ServiceOptionID: b.ServiceOptionID(),
		CustomerID:      b.CustomerID(),
		StaffID:         b.StaffID(),
		ResourceIDs:     resourceIDs,
		Window:          FromWindow(b.Window()),
		ServiceTotal:    b.ServiceTotal().StringFixed(settlement.MinorUnitDigits),
		Status:          b.Status().String(),
		Note:            b.Note(),
		WaitlistEntryID: b.WaitlistEntryID(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

type MatchResponse struct {
	Kind       string         `json:"kind"`
	EntryID    uuid.UUID      `json:"entry_id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Window     WindowResponse `json:"window"`
	BookingID  *uuid.UUID     `json:"booking_id,omitempty"`
}

func FromMatches(outcomes []commands.MatchOutcome) []MatchResponse {
	res := make([]MatchResponse, 0, len(outcomes))
	for _, o := range outcomes {
		res = append(res, MatchResponse{
			Kind:       string(o.Kind),
			EntryID:    o.EntryID,
			CustomerID: o.CustomerID,
			Window:     FromWindow(o.Window),
			BookingID:  o.BookingID,
		})
	}
	return res
}

type ProductLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Total     string    `json:"total"`
}

type PaymentLineResponse struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

type SettlementResponse struct {
	BookingID     uuid.UUID             `json:"booking_id"`
	Status        string                `json:"status"`
	ServiceTotal  string                `json:"service_total"`
	ProductsTotal string                `json:"products_total"`
	GrandTotal    string                `json:"grand_total"`
	Products      []ProductLineResponse `json:"products"`
	Payments      []PaymentLineResponse `json:"payments"`
	Note          string                `json:"note,omitempty"`
	ReconciledAt  time.Time             `json:"reconciled_at"`
}

func FromSettlement(s *settlement.Settlement) *SettlementResponse {
	products := make([]ProductLineResponse, 0, len(s.Products()))
	for _, p := range s.Products() {
		products = append(products, ProductLineResponse{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice.StringFixed(settlement.MinorUnitDigits),
			Total:     p.Total.StringFixed(settlement.MinorUnitDigits),
		})
	}
	payments := make([]PaymentLineResponse, 0, len(s.Payments()))
	for _, p := range s.Payments() {
		payments = append(payments, PaymentLineResponse{
			Method: p.Method.String(),
			Amount: p.Amount.StringFixed(settlement.MinorUnitDigits),
		})
	}
	return &SettlementResponse{
		BookingID:     s.BookingID(),
		Status:        s.Status().String(),
		ServiceTotal:  s.ServiceTotal().StringFixed(settlement.MinorUnitDigits),
		ProductsTotal: s.ProductsTotal().StringFixed(settlement.MinorUnitDigits),
		GrandTotal:    s.GrandTotal().StringFixed(settlement.MinorUnitDigits),
		Products:      products,
		Payments:      payments,
		Note:          s.Note(),
		ReconciledAt:  s.ReconciledAt(),
	}
}

type CompletionResponse struct {
	Settlement *SettlementResponse `json:"settlement"`
	Matches    []MatchResponse     `json:"matches"`
}

func FromCompletion(r *commands.CompletionResult) *CompletionResponse {
	return &CompletionResponse{
		Settlement: FromSettlement(r.Settlement),
		Matches:    FromMatches(r.Matches),
	}
}

type BookingWithMatchesResponse struct {
	Booking *BookingResponse `json:"booking"`
	Matches []MatchResponse  `json:"matches"`
}

func FromCancellation(r *commands.CancellationResult) *BookingWithMatchesResponse {
	return &BookingWithMatchesResponse{Booking: FromBooking(r.Booking), Matches: FromMatches(r.Matches)}
}

func FromBookingUpdate(r *commands.UpdateBookingResult) *BookingWithMatchesResponse {
	return &BookingWithMatchesResponse{Booking: FromBooking(r.Booking), Matches: FromMatches(r.Matches)}
}
