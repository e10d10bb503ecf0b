package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ViolationCode string

const (
	CodeMissingField        ViolationCode = "missing_field"
	CodeInvalidValue        ViolationCode = "invalid_value"
	CodeNegativeAmount      ViolationCode = "negative_amount"
	CodeNonPositive         ViolationCode = "non_positive"
	CodeLineTotalMismatch   ViolationCode = "line_total_mismatch"
	CodeNotAllowedForNoShow ViolationCode = "not_allowed_for_no_show"
	CodePrecisionExceeded   ViolationCode = "precision_exceeded"
)

type Violation struct {
	Field   string        `json:"field"`
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

type ValidationResult struct {
	Violations []Violation
}

func (r ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// ValidationError carries the violations of a rejected completion request.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field+":"+string(v.Code))
	}
	return "invalid completion data: " + strings.Join(fields, ", ")
}

// Validate checks monetary and quantity invariants. It never fails on structurally
// present input; every problem is reported as a field-scoped violation.
func Validate(req CompletionRequest) ValidationResult {
	c := &collector{}

	outcomeKnown := false
	switch {
	case req.Outcome == nil:
		c.add("outcome", CodeMissingField, "outcome is required")
	case !req.Outcome.IsValid():
		c.add("outcome", CodeInvalidValue, fmt.Sprintf("outcome %q is not one of completed, no_show", *req.Outcome))
	default:
		outcomeKnown = true
	}

	if outcomeKnown && *req.Outcome == OutcomeNoShow {
		if len(req.Products) > 0 {
			c.add("products", CodeNotAllowedForNoShow, "no_show completion cannot carry product lines")
		}
		if len(req.Payments) > 0 {
			c.add("payments", CodeNotAllowedForNoShow, "no_show completion cannot carry payment lines")
		}
		return c.result()
	}

	if outcomeKnown {
		c.amount("serviceTotal", req.ServiceTotal, false)
	}
	for i, line := range req.Products {
		c.productLine(fmt.Sprintf("products[%d]", i), line)
	}
	for i, line := range req.Payments {
		c.paymentLine(fmt.Sprintf("payments[%d]", i), line)
	}
	return c.result()
}

type collector struct {
	violations []Violation
}

func (c *collector) add(field string, code ViolationCode, msg string) {
	c.violations = append(c.violations, Violation{Field: field, Code: code, Message: msg})
}

func (c *collector) result() ValidationResult {
	return ValidationResult{Violations: c.violations}
}

// amount validates a required decimal; strict demands a value > 0, otherwise >= 0.
func (c *collector) amount(field string, d *decimal.Decimal, strict bool) bool {
	if d == nil {
		c.add(field, CodeMissingField, field+" is required")
		return false
	}
	ok := true
	switch {
	case strict && !d.IsPositive():
		c.add(field, CodeNonPositive, field+" must be greater than zero")
		ok = false
	case !strict && d.IsNegative():
		c.add(field, CodeNegativeAmount, field+" cannot be negative")
		ok = false
	}
	if exceedsMinorUnit(*d) {
		c.add(field, CodePrecisionExceeded, fmt.Sprintf("%s has more than %d fractional digits", field, MinorUnitDigits))
		ok = false
	}
	return ok
}

func (c *collector) productLine(prefix string, line ProductLine) {
	if line.ProductID == nil {
		c.add(prefix+".productId", CodeMissingField, "productId is required")
	}

	qtyOK := true
	if line.Quantity == nil {
		c.add(prefix+".quantity", CodeMissingField, "quantity is required")
		qtyOK = false
	} else if *line.Quantity <= 0 {
		c.add(prefix+".quantity", CodeNonPositive, "quantity must be greater than zero")
		qtyOK = false
	}

	priceOK := c.amount(prefix+".unitPrice", line.UnitPrice, false)
	totalOK := c.amount(prefix+".total", line.Total, false)

	if qtyOK && priceOK && totalOK {
		expected := line.UnitPrice.Mul(decimal.NewFromInt(int64(*line.Quantity)))
		if !expected.Equal(*line.Total) {
			c.add(prefix+".total", CodeLineTotalMismatch,
				fmt.Sprintf("total %s does not equal quantity x unitPrice (%s)", line.Total.String(), expected.String()))
		}
	}
}

func (c *collector) paymentLine(prefix string, line PaymentLine) {
	switch {
	case line.Method == nil:
		c.add(prefix+".method", CodeMissingField, "method is required")
	case !line.Method.IsValid():
		c.add(prefix+".method", CodeInvalidValue, fmt.Sprintf("method %q is not one of cash, card, online, transfer", *line.Method))
	}
	c.amount(prefix+".amount", line.Amount, true)
}

func exceedsMinorUnit(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(MinorUnitDigits))
}
