//go:build unit || e2e

package builder

import (
	"booking-engine/internal/domain/settlement"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice string
	Total     string
}

type PaymentLine struct {
	Method settlement.PaymentMethod
	Amount string
}

// CompletionBuilder defaults to the reference completion: service 40.00, two products
// at 5.00 and a single cash payment of 50.00.
type CompletionBuilder struct {
	Outcome      settlement.Outcome
	ServiceTotal *string
	Products     []ProductLine
	Payments     []PaymentLine
	Note         string
}

func NewCompletionBuilder() *CompletionBuilder {
	total := "40.00"
	return &CompletionBuilder{
		Outcome:      settlement.OutcomeCompleted,
		ServiceTotal: &total,
		Products: []ProductLine{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: "5.00", Total: "10.00"},
		},
		Payments: []PaymentLine{
			{Method: settlement.PaymentMethodCash, Amount: "50.00"},
		},
	}
}

func (b *CompletionBuilder) With(mutate func(*CompletionBuilder)) *CompletionBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CompletionBuilder) BuildRequest() settlement.CompletionRequest {
	outcome := b.Outcome
	req := settlement.CompletionRequest{
		Outcome:  &outcome,
		Products: make([]settlement.ProductLine, 0, len(b.Products)),
		Payments: make([]settlement.PaymentLine, 0, len(b.Payments)),
		Note:     b.Note,
	}
	if b.ServiceTotal != nil {
		req.ServiceTotal = dec(*b.ServiceTotal)
	}
	for _, p := range b.Products {
		productID, quantity := p.ProductID, p.Quantity
		req.Products = append(req.Products, settlement.ProductLine{
			ProductID: &productID,
			Quantity:  &quantity,
			UnitPrice: dec(p.UnitPrice),
			Total:     dec(p.Total),
		})
	}
	for _, p := range b.Payments {
		method := p.Method
		req.Payments = append(req.Payments, settlement.PaymentLine{Method: &method, Amount: dec(p.Amount)})
	}
	return req
}

func (b *CompletionBuilder) BuildStandard() commands.StandardCompletion {
	req := b.BuildRequest()
	return commands.StandardCompletion{
		Outcome:  req.Outcome,
		Products: req.Products,
		Payments: req.Payments,
		Note:     req.Note,
	}
}

func (b *CompletionBuilder) BuildPriced() commands.PricedCompletion {
	req := b.BuildRequest()
	return commands.PricedCompletion{
		Outcome:      req.Outcome,
		ServiceTotal: req.ServiceTotal,
		Products:     req.Products,
		Payments:     req.Payments,
		Note:         req.Note,
	}
}

func (b *CompletionBuilder) BuildRequestDTO() reqdto.CompleteBookingRequest {
	req := b.BuildRequest()
	outcome := string(b.Outcome)
	dto := reqdto.CompleteBookingRequest{
		Outcome:      &outcome,
		ServiceTotal: req.ServiceTotal,
		Products:     make([]reqdto.ProductLineRequest, 0, len(req.Products)),
		Payments:     make([]reqdto.PaymentLineRequest, 0, len(req.Payments)),
		Note:         req.Note,
	}
	for _, p := range req.Products {
		dto.Products = append(dto.Products, reqdto.ProductLineRequest{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Total:     p.Total,
		})
	}
	for _, p := range req.Payments {
		method := p.Method.String()
		dto.Payments = append(dto.Payments, reqdto.PaymentLineRequest{Method: &method, Amount: p.Amount})
	}
	return dto
}

// Fluent builder methods
func (b *CompletionBuilder) AsNoShow() *CompletionBuilder {
	b.Outcome = settlement.OutcomeNoShow
	b.ServiceTotal = nil
	b.Products = nil
	b.Payments = nil
	return b
}

func (b *CompletionBuilder) WithServiceTotal(total string) *CompletionBuilder {
	b.ServiceTotal = &total
	return b
}

func (b *CompletionBuilder) WithoutServiceTotal() *CompletionBuilder {
	b.ServiceTotal = nil
	return b
}

func (b *CompletionBuilder) WithProducts(lines ...ProductLine) *CompletionBuilder {
	b.Products = lines
	return b
}

func (b *CompletionBuilder) WithPayments(lines ...PaymentLine) *CompletionBuilder {
	b.Payments = lines
	return b
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
