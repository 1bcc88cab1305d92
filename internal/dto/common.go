package dto

import (
	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// parseOptionalDate parses a YYYY-MM-DD query value. Empty means unset.
func parseOptionalDate(field, value string) (domain.Date, error) {
	if value == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, apperrors.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}
