package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of fractional digits of the settlement currency.
const MinorUnitDigits = 2

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeNoShow    Outcome = "no_show"
)

func (o Outcome) String() string {
	return string(o)
}

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeCompleted, OutcomeNoShow:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOnline   PaymentMethod = "online"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline, PaymentMethodTransfer:
		return true
	default:
		return false
	}
}

// CompletionRequest is the transient input of a completion. Pointer fields distinguish
// an absent value from a zero value so that missing fields are reported, not defaulted.
type CompletionRequest struct {
	Outcome      *Outcome
	ServiceTotal *decimal.Decimal
	Products     []ProductLine
	Payments     []PaymentLine
	Note         string
}

type ProductLine struct {
	ProductID *uuid.UUID
	Quantity  *int
	UnitPrice *decimal.Decimal
	Total     *decimal.Decimal
}

type PaymentLine struct {
	Method *PaymentMethod
	Amount *decimal.Decimal
}
