package validation

import (
	"math"
	"strings"

	"invoicedash/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MsgSelectCustomer = "Please select a customer"
	MsgAmountGtZero   = "Please enter an amount greater than $0."
	MsgSelectStatus   = "Please select an invoice status."
	MsgAmountTooLarge = "Please enter an amount no greater than $21,474,836.47."
)

// MaxAmountCents is the largest value the invoices.amount column holds
const MaxAmountCents = math.MaxInt32

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(MaxAmountCents)
)

var validate = validator.New()

// InvoiceFields is a validated invoice form. Amount is in dollars, exactly as submitted.
type InvoiceFields struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     models.InvoiceStatus
}

// CentsAmount converts the dollar amount to integer minor units. Amount must have
// passed ValidateInvoice, which bounds it to MaxAmountCents.
func (f InvoiceFields) CentsAmount() int64 {
	return toCents(f.Amount).IntPart()
}

func toCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred).Round(0)
}

// ValidateInvoice runs every field rule and collects all failures. It returns a nil
// *FieldErrors when the form is valid.
func ValidateInvoice(form models.InvoiceForm) (InvoiceFields, *models.FieldErrors) {
	var fields InvoiceFields
	errs := &models.FieldErrors{}

	if id, msg := CustomerID(form.CustomerID, form.HasCustomerID); msg != "" {
		errs.CustomerID = append(errs.CustomerID, msg)
	} else {
		fields.CustomerID = id
	}

	if amount, msg := Amount(form.Amount, form.HasAmount); msg != "" {
		errs.Amount = append(errs.Amount, msg)
	} else {
		fields.Amount = amount
	}

	if status, msg := Status(form.Status, form.HasStatus); msg != "" {
		errs.Status = append(errs.Status, msg)
	} else {
		fields.Status = status
	}

	if !errs.Empty() {
		return InvoiceFields{}, errs
	}
	return fields, nil
}

// CustomerID requires a present, non-blank customer reference
func CustomerID(raw string, present bool) (string, string) {
	raw = strings.TrimSpace(raw)
	if !present || validate.Var(raw, "required") != nil {
		return "", MsgSelectCustomer
	}
	return raw, ""
}

// Amount coerces the submitted text to a decimal and requires it to be above zero.
// Missing, blank and non-numeric input all fail with the same message. Amounts whose
// cents exceed MaxAmountCents are rejected.
func Amount(raw string, present bool) (decimal.Decimal, string) {
	if !present {
		return decimal.Zero, MsgAmountGtZero
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.GreaterThan(decimal.Zero) {
		return decimal.Zero, MsgAmountGtZero
	}
	if toCents(amount).GreaterThan(maxCents) {
		return decimal.Zero, MsgAmountTooLarge
	}
	return amount, ""
}

// Status accepts only the two invoice states
func Status(raw string, present bool) (models.InvoiceStatus, string) {
	if !present || validate.Var(raw, "required,oneof=pending paid") != nil {
		return "", MsgSelectStatus
	}
	return models.InvoiceStatus(raw), ""
}
