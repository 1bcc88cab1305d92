// Package accounting holds the sign conventions shared by reports and stores.
package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// IsDebitNormal reports whether an account type increases on the debit side.
func IsDebitNormal(accountType domain.AccountType) bool {
	return accountType == domain.Asset || accountType == domain.Expense
}

// CalculateSignedAmount returns the effect of a journal line on its account's
// balance, positive when the line moves the account toward its normal side.
//
//	DEBIT to ASSET/EXPENSE                -> +
//	CREDIT to ASSET/EXPENSE               -> -
//	DEBIT to LIABILITY/EQUITY/REVENUE     -> -
//	CREDIT to LIABILITY/EQUITY/REVENUE    -> +
func CalculateSignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	net := line.DebitAmount.Sub(line.CreditAmount)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account %s", accountType, line.Account.Code)
	}
}

// ValidateEntryBalance checks that the signed effects of an entry's lines on
// the accounting equation cancel out (assets = liabilities + equity + revenue - expenses).
func ValidateEntryBalance(entry domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}

	sum := decimal.Zero
	for _, line := range entry.Lines {
		signed, err := CalculateSignedAmount(line, line.Account.Type)
		if err != nil {
			return fmt.Errorf("error calculating signed amount for line %s: %w", line.ID, err)
		}
		if IsDebitNormal(line.Account.Type) {
			sum = sum.Add(signed)
		} else {
			sum = sum.Sub(signed)
		}
	}

	if !sum.IsZero() {
		return fmt.Errorf("journal entry does not balance to zero: sum is %s", sum.String())
	}
	return nil
}

// ValidatePostable runs the entry invariants and then the accounting equation
// check. Stores call it before appending; both failures are ErrValidation.
func ValidatePostable(entry domain.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := ValidateEntryBalance(entry); err != nil {
		return apperrors.NewValidationError("lines", err.Error())
	}
	return nil
}
