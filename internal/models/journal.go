package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus is the stored (upper-case) form of an entry status.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Voided JournalStatus = "VOIDED"
)

// AuditFields are the created/posted/voided stamps of a journal row.
type AuditFields struct {
	CreatedAt time.Time      `db:"created_at"`
	CreatedBy string         `db:"created_by"`
	PostedAt  sql.NullTime   `db:"posted_at"`
	PostedBy  sql.NullString `db:"posted_by"`
	VoidedAt  sql.NullTime   `db:"voided_at"`
	VoidedBy  sql.NullString `db:"voided_by"`
}

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalID       string        `db:"journal_id"`
	EntityID        string        `db:"entity_id"`
	EntryDate       time.Time     `db:"entry_date"`
	Description     string        `db:"description"`
	ReferenceNumber string        `db:"reference_number"`
	Status          JournalStatus `db:"status"`
	SourceType      string        `db:"source_type"`
	SourceID        string        `db:"source_id"`
	AuditFields
}

// JournalLine is a row of the journal_lines table joined with its account.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	JournalID    string          `db:"journal_id"`
	LineNumber   int             `db:"line_number"`
	AccountCode  string          `db:"account_code"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Description  string          `db:"description"`
	Memo         string          `db:"memo"`
	Reconciled   bool            `db:"reconciled"`
	Account      Account         `db:"-"` // Populated from the accounts join
}
