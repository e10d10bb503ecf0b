package settlement

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMismatchError reports that the payments do not cover the grand total exactly.
type PaymentMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("payment mismatch: expected %s, got %s", e.Expected.StringFixed(MinorUnitDigits), e.Actual.StringFixed(MinorUnitDigits))
}

type Product struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

type Payment struct {
	Method PaymentMethod
	Amount decimal.Decimal
}

// Settlement is the immutable financial record of a finished booking.
type Settlement struct {
	bookingID     uuid.UUID
	status        Outcome
	serviceTotal  decimal.Decimal
	productsTotal decimal.Decimal
	grandTotal    decimal.Decimal
	products      []Product
	payments      []Payment
	note          string
	reconciledAt  time.Time
}

// Reconcile computes the settlement of a booking. A request without a service total
// settles at currentBookingTotal, the price the booking was made at.
func Reconcile(bookingID uuid.UUID, currentBookingTotal decimal.Decimal, req CompletionRequest, now time.Time) (*Settlement, error) {
	if req.ServiceTotal == nil && req.Outcome != nil && *req.Outcome == OutcomeCompleted {
		total := currentBookingTotal
		req.ServiceTotal = &total
	}

	if res := Validate(req); !res.Valid() {
		return nil, &ValidationError{Violations: res.Violations}
	}

	if *req.Outcome == OutcomeNoShow {
		return &Settlement{
			bookingID:     bookingID,
			status:        OutcomeNoShow,
			serviceTotal:  decimal.Zero,
			productsTotal: decimal.Zero,
			grandTotal:    decimal.Zero,
			note:          req.Note,
			reconciledAt:  now,
		}, nil
	}

	products := make([]Product, 0, len(req.Products))
	productsTotal := decimal.Zero
	for _, line := range req.Products {
		products = append(products, Product{
			ProductID: *line.ProductID,
			Quantity:  *line.Quantity,
			UnitPrice: *line.UnitPrice,
			Total:     *line.Total,
		})
		productsTotal = productsTotal.Add(*line.Total)
	}

	payments := make([]Payment, 0, len(req.Payments))
	paid := decimal.Zero
	for _, line := range req.Payments {
		payments = append(payments, Payment{Method: *line.Method, Amount: *line.Amount})
		paid = paid.Add(*line.Amount)
	}

	grandTotal := req.ServiceTotal.Add(productsTotal)
	if !paid.Equal(grandTotal) {
		return nil, &PaymentMismatchError{Expected: grandTotal, Actual: paid}
	}

	return &Settlement{
		bookingID:     bookingID,
		status:        OutcomeCompleted,
		serviceTotal:  *req.ServiceTotal,
		productsTotal: productsTotal,
		grandTotal:    grandTotal,
		products:      products,
		payments:      payments,
		note:          req.Note,
		reconciledAt:  now,
	}, nil
}

func ReconstructSettlement(
	bookingID uuid.UUID,
	status Outcome,
	serviceTotal, productsTotal, grandTotal decimal.Decimal,
	products []Product,
	payments []Payment,
	note string,
	reconciledAt time.Time,
) *Settlement {
	return &Settlement{
		bookingID:     bookingID,
		status:        status,
		serviceTotal:  serviceTotal,
		productsTotal: productsTotal,
		grandTotal:    grandTotal,
		products:      products,
		payments:      payments,
		note:          note,
		reconciledAt:  reconciledAt,
	}
}

func (s *Settlement) PaymentsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (s *Settlement) BookingID() uuid.UUID           { return s.bookingID }
func (s *Settlement) Status() Outcome                { return s.status }
func (s *Settlement) ServiceTotal() decimal.Decimal  { return s.serviceTotal }
func (s *Settlement) ProductsTotal() decimal.Decimal { return s.productsTotal }
func (s *Settlement) GrandTotal() decimal.Decimal    { return s.grandTotal }
func (s *Settlement) Products() []Product            { return slices.Clone(s.products) }
func (s *Settlement) Payments() []Payment            { return slices.Clone(s.payments) }
func (s *Settlement) Note() string                   { return s.note }
func (s *Settlement) ReconciledAt() time.Time        { return s.reconciledAt }
