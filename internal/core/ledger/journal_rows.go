package ledger

import (
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// FromJournalEntries flattens journal lines into ledger rows, one row per line.
// Voided and draft entries are skipped. reconciled maps line IDs to their
// reconciled flag; missing lines are unreconciled. Row order follows the
// input entry and line order.
func FromJournalEntries(entries []domain.JournalEntry, reconciled map[string]bool) []domain.LedgerEntry {
	rows := make([]domain.LedgerEntry, 0, len(entries)*2)
	for _, je := range entries {
		if je.Status != domain.Posted {
			continue
		}
		ref := je.ReferenceNumber
		if ref == "" {
			ref = je.ID
		}
		for _, line := range je.Lines {
			description := line.Description
			if description == "" {
				description = je.Description
			}
			rows = append(rows, domain.LedgerEntry{
				ID:              line.ID,
				Date:            je.EntryDate,
				Description:     description,
				Source:          string(je.SourceType),
				EntityID:        je.EntityID,
				Category:        line.Account.Name,
				InternalCode:    line.Account.Code,
				Debit:           line.DebitAmount,
				Credit:          line.CreditAmount,
				ReferenceNumber: ref,
				Reconciled:      reconciled[line.ID],
			})
		}
	}
	return rows
}
