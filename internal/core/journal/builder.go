// Package journal builds balanced double-entry journal entries from captured
// transactions.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// DefaultActor is recorded in audit fields when no actor is supplied.
const DefaultActor = "system"

type buildOptions struct {
	actor string
	now   func() time.Time
	newID func() string
}

// BuildOption customizes audit and identity fields of a built entry.
type BuildOption func(*buildOptions)

// WithActor sets created_by and posted_by.
func WithActor(userID string) BuildOption {
	return func(o *buildOptions) {
		if userID != "" {
			o.actor = userID
		}
	}
}

// WithClock sets the clock used for created_at and posted_at.
func WithClock(now func() time.Time) BuildOption {
	return func(o *buildOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the generator for entry and line IDs.
func WithIDGenerator(newID func() string) BuildOption {
	return func(o *buildOptions) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// ExpectedAccountType returns the account type the counter account of a
// capture must have.
func ExpectedAccountType(sourceType domain.SourceType) (domain.AccountType, bool) {
	switch sourceType {
	case domain.SourceCheckDeposit:
		return domain.Revenue, true
	case domain.SourceReimbursement, domain.SourceExpense:
		return domain.Expense, true
	}
	return "", false
}

// Build converts a capture record into exactly one posted, balanced two-line entry.
//
// check-deposit debits Cash and credits the revenue account; reimbursement and
// expense debit the expense account and credit Cash. Build fails with an
// AccountNotFoundError when the chart has no Cash account and with a
// ValidationError for malformed input. Neither input is modified.
func Build(chart *domain.ChartOfAccounts, sourceType domain.SourceType, data domain.CaptureRecord, opts ...BuildOption) (*domain.JournalEntry, error) {
	o := buildOptions{
		actor: DefaultActor,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	expectedType, ok := ExpectedAccountType(sourceType)
	if !ok {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unsupported capture type %q", sourceType))
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	cash, ok := chart.Lookup(domain.CashAccountCode)
	if !ok {
		return nil, &apperrors.AccountNotFoundError{Code: domain.CashAccountCode}
	}

	counter := data.Account
	if counter.Code == cash.Code {
		return nil, apperrors.NewValidationError("account", "must not be the cash account")
	}
	if counter.Type != expectedType {
		return nil, apperrors.NewValidationError("account",
			fmt.Sprintf("%s requires a %s account, got %s (%s)", sourceType, expectedType, counter.Type, counter.FullName()))
	}

	amount := domain.RoundCurrency(data.Amount)
	description := describe(sourceType, data)

	// Line 1 is always the debit leg.
	debitAcc, creditAcc := counter, cash
	if sourceType == domain.SourceCheckDeposit {
		debitAcc, creditAcc = cash, counter
	}

	now := o.now()
	entry := &domain.JournalEntry{
		ID:              o.newID(),
		EntityID:        data.EntityID,
		EntryDate:       data.Date,
		Description:     description,
		ReferenceNumber: data.ReferenceNumber,
		Status:          domain.Posted,
		SourceType:      sourceType,
		SourceID:        data.ID,
		Lines: []domain.JournalEntryLine{
			{
				ID:           o.newID(),
				Account:      debitAcc,
				LineNumber:   1,
				DebitAmount:  amount,
				CreditAmount: decimal.Zero,
				Description:  description,
				Memo:         data.Memo,
			},
			{
				ID:           o.newID(),
				Account:      creditAcc,
				LineNumber:   2,
				DebitAmount:  decimal.Zero,
				CreditAmount: amount,
				Description:  description,
				Memo:         data.Memo,
			},
		},
		CreatedBy: o.actor,
		CreatedAt: now,
		PostedAt:  &now,
		PostedBy:  o.actor,
	}
	return entry, nil
}

func describe(sourceType domain.SourceType, data domain.CaptureRecord) string {
	if d := strings.TrimSpace(data.Description); d != "" {
		return d
	}
	counterparty := strings.TrimSpace(data.Counterparty)
	switch sourceType {
	case domain.SourceCheckDeposit:
		if counterparty == "" {
			return "Check deposit"
		}
		return "Check deposit from " + counterparty
	case domain.SourceReimbursement:
		if counterparty == "" {
			return "Reimbursement"
		}
		return "Reimbursement to " + counterparty
	default:
		if counterparty == "" {
			return "Expense"
		}
		return "Expense - " + counterparty
	}
}
