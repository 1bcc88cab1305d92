package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "draft"
	Posted JournalStatus = "posted"
	Voided JournalStatus = "voided"
)

// SourceType names what kind of capture produced a journal entry.
type SourceType string

const (
	SourceCheckDeposit  SourceType = "check-deposit"
	SourceReimbursement SourceType = "reimbursement"
	SourceExpense       SourceType = "expense"
	SourceManual        SourceType = "manual"
)

// Valid reports whether s is a known source type.
func (s SourceType) Valid() bool {
	switch s {
	case SourceCheckDeposit, SourceReimbursement, SourceExpense, SourceManual:
		return true
	}
	return false
}

// JournalEntryLine is one debit-or-credit leg of a posting.
// Exactly one of DebitAmount and CreditAmount is non-zero.
type JournalEntryLine struct {
	ID           string          `json:"id"`
	Account      Account         `json:"account"`
	LineNumber   int             `json:"line_number"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Description  string          `json:"description"`
	Memo         string          `json:"memo,omitempty"`
}

// IsDebit reports whether the line is a debit leg.
func (l JournalEntryLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// JournalEntry is a posted double-entry record made of exactly two lines.
type JournalEntry struct {
	ID              string             `json:"id"`
	EntityID        string             `json:"entity_id"`
	EntryDate       Date               `json:"entry_date"`
	Description     string             `json:"description"`
	ReferenceNumber string             `json:"reference_number,omitempty"`
	Status          JournalStatus      `json:"status"`
	SourceType      SourceType         `json:"source_type"`
	SourceID        string             `json:"source_id,omitempty"` // Non-owning back-reference to the capture record
	Lines           []JournalEntryLine `json:"lines"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	PostedAt        *time.Time         `json:"posted_at,omitempty"`
	PostedBy        string             `json:"posted_by,omitempty"`
	VoidedAt        *time.Time         `json:"voided_at,omitempty"`
	VoidedBy        string             `json:"voided_by,omitempty"`
}

// Totals returns the debit and credit sums across all lines.
func (e JournalEntry) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// Amount returns the economic value of the entry (the debit side total).
func (e JournalEntry) Amount() decimal.Decimal {
	d, _ := e.Totals()
	return d
}

// Validate checks the structural invariants every stored entry must hold:
// two lines numbered 1 and 2, distinct accounts, one-sided positive legs, and
// debits equal to credits.
func (e JournalEntry) Validate() error {
	if e.ID == "" {
		return apperrors.NewValidationError("id", "is required")
	}
	if e.EntityID == "" {
		return apperrors.NewValidationError("entity_id", "is required")
	}
	if e.EntryDate.IsZero() {
		return apperrors.NewValidationError("entry_date", "is required")
	}
	if !e.SourceType.Valid() {
		return apperrors.NewValidationError("source_type", fmt.Sprintf("unknown value %q", e.SourceType))
	}
	if len(e.Lines) != 2 {
		return apperrors.NewValidationError("lines", fmt.Sprintf("must contain exactly 2 lines, got %d", len(e.Lines)))
	}
	if e.Lines[0].Account.Code == e.Lines[1].Account.Code {
		return apperrors.NewValidationError("lines", "must affect two different accounts")
	}
	for i, l := range e.Lines {
		if l.LineNumber != i+1 {
			return apperrors.NewValidationError("lines", fmt.Sprintf("line %d has line_number %d", i+1, l.LineNumber))
		}
		debit, credit := l.DebitAmount, l.CreditAmount
		if debit.IsNegative() || credit.IsNegative() {
			return apperrors.NewValidationError("lines", fmt.Sprintf("line %d has a negative amount", l.LineNumber))
		}
		if debit.IsZero() == credit.IsZero() {
			return apperrors.NewValidationError("lines", fmt.Sprintf("line %d must be either a debit or a credit", l.LineNumber))
		}
	}
	debits, credits := e.Totals()
	if !debits.Equal(credits) {
		return apperrors.NewValidationError("lines", fmt.Sprintf("unbalanced: debits %s, credits %s", FormatAmount(debits), FormatAmount(credits)))
	}
	return nil
}
