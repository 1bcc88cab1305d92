package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// PostCaptureRequest defines the data needed to build and post a journal
// entry from a captured check deposit, reimbursement or expense.
type PostCaptureRequest struct {
	Type            domain.SourceType `json:"type" binding:"required,oneof=check-deposit reimbursement expense"`
	ID              string            `json:"id"` // Optional capture record ID, kept as the entry's source ID
	Amount          decimal.Decimal   `json:"amount"`
	Date            domain.Date       `json:"date"`
	AccountCode     string            `json:"accountCode" binding:"required"`
	EntityID        string            `json:"entityId" binding:"required"`
	Counterparty    string            `json:"counterparty"`
	Memo            string            `json:"memo"`
	Description     string            `json:"description"`
	ReferenceNumber string            `json:"referenceNumber"`
}

// ListJournalsParams defines the query parameters for listing journal entries.
type ListJournalsParams struct {
	EntityID  string `form:"entityId"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	LineNumber  int             `json:"lineNumber"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Memo        string          `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID       string         `json:"journalID"`
	EntityID        string         `json:"entityId"`
	Date            domain.Date    `json:"date"`
	Description     string         `json:"description"`
	ReferenceNumber string         `json:"referenceNumber,omitempty"`
	Status          string         `json:"status"`
	SourceType      string         `json:"sourceType"`
	SourceID        string         `json:"sourceID,omitempty"`
	Lines           []LineResponse `json:"lines"`
	CreatedAt       time.Time      `json:"createdAt"`
	CreatedBy       string         `json:"createdBy"`
	PostedAt        *time.Time     `json:"postedAt,omitempty"`
	VoidedAt        *time.Time     `json:"voidedAt,omitempty"`
	VoidedBy        string         `json:"voidedBy,omitempty"`
}

// ListJournalsResponse is a page of journal entries.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalEntryLine to LineResponse DTO.
func ToLineResponse(l domain.JournalEntryLine) LineResponse {
	return LineResponse{
		LineID:      l.ID,
		LineNumber:  l.LineNumber,
		AccountCode: l.Account.Code,
		AccountName: l.Account.Name,
		Debit:       l.DebitAmount,
		Credit:      l.CreditAmount,
		Description: l.Description,
		Memo:        l.Memo,
	}
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(e *domain.JournalEntry) JournalResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = ToLineResponse(l)
	}
	return JournalResponse{
		JournalID:       e.ID,
		EntityID:        e.EntityID,
		Date:            e.EntryDate,
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		Status:          string(e.Status),
		SourceType:      string(e.SourceType),
		SourceID:        e.SourceID,
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		PostedAt:        e.PostedAt,
		VoidedAt:        e.VoidedAt,
		VoidedBy:        e.VoidedBy,
	}
}

// ToJournalResponses converts a slice of domain.JournalEntry to []JournalResponse.
func ToJournalResponses(entries []domain.JournalEntry) []JournalResponse {
	responses := make([]JournalResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalResponse(&entries[i])
	}
	return responses
}
