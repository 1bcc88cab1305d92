package mapping

import (
	"database/sql"
	"strings"
	"time"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/models"
)

// ToModelJournal converts a domain JournalEntry to a model JournalEntry
func ToModelJournal(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalID:       d.ID,
		EntityID:        d.EntityID,
		EntryDate:       d.EntryDate.Time(),
		Description:     d.Description,
		ReferenceNumber: d.ReferenceNumber,
		Status:          models.JournalStatus(strings.ToUpper(string(d.Status))),
		SourceType:      string(d.SourceType),
		SourceID:        d.SourceID,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			CreatedBy: d.CreatedBy,
			PostedAt:  nullTime(d.PostedAt),
			PostedBy:  nullString(d.PostedBy),
			VoidedAt:  nullTime(d.VoidedAt),
			VoidedBy:  nullString(d.VoidedBy),
		},
	}
}

// ToDomainJournal converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournal(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	out := domain.JournalEntry{
		ID:              m.JournalID,
		EntityID:        m.EntityID,
		EntryDate:       domain.DateOf(m.EntryDate),
		Description:     m.Description,
		ReferenceNumber: m.ReferenceNumber,
		Status:          domain.JournalStatus(strings.ToLower(string(m.Status))),
		SourceType:      domain.SourceType(m.SourceType),
		SourceID:        m.SourceID,
		Lines:           make([]domain.JournalEntryLine, 0, len(lines)),
		CreatedAt:       m.CreatedAt.UTC(),
		CreatedBy:       m.CreatedBy,
		PostedAt:        timePtr(m.PostedAt),
		PostedBy:        m.PostedBy.String,
		VoidedAt:        timePtr(m.VoidedAt),
		VoidedBy:        m.VoidedBy.String,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, ToDomainLine(l))
	}
	return out
}

// ToModelLine converts a domain JournalEntryLine to a model JournalLine
func ToModelLine(journalID string, d domain.JournalEntryLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.ID,
		JournalID:    journalID,
		LineNumber:   d.LineNumber,
		AccountCode:  d.Account.Code,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Description:  d.Description,
		Memo:         d.Memo,
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalEntryLine
func ToDomainLine(m models.JournalLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		ID:           m.LineID,
		Account:      ToDomainAccount(m.Account),
		LineNumber:   m.LineNumber,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		Description:  m.Description,
		Memo:         m.Memo,
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
