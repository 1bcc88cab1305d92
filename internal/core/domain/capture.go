package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
)

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CaptureRecord is a single real-world event (a deposited check or a
// reimbursable expense) before it is posted to the ledger.
// Account is the revenue account for deposits and the expense account for
// reimbursements and expenses.
type CaptureRecord struct {
	ID              string          `json:"id" validate:"max=64"`
	Amount          decimal.Decimal `json:"amount"`
	Date            Date            `json:"date"`
	Counterparty    string          `json:"counterparty" validate:"max=200"` // Payer or vendor
	Account         Account         `json:"account" validate:"-"`
	EntityID        string          `json:"entityId" validate:"required,max=64"`
	Memo            string          `json:"memo,omitempty" validate:"max=500"`
	Description     string          `json:"description,omitempty" validate:"max=500"`
	ReferenceNumber string          `json:"referenceNumber,omitempty" validate:"max=64"`
}

// Validate checks the record's own fields. It does not consult the chart of accounts.
func (c CaptureRecord) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewValidationError(fe.Field(), "failed '"+fe.Tag()+"' rule")
		}
		return apperrors.NewValidationError("", err.Error())
	}
	if strings.TrimSpace(c.EntityID) == "" {
		return apperrors.NewValidationError("entityId", "is required")
	}
	if !c.Amount.IsPositive() {
		return apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if !HasCurrencyScale(c.Amount) {
		return apperrors.NewValidationError("amount", "must have at most two decimal places")
	}
	if c.Date.IsZero() {
		return apperrors.NewValidationError("date", "is required")
	}
	if strings.TrimSpace(c.Account.Code) == "" {
		return apperrors.NewValidationError("account", "is required")
	}
	return nil
}
