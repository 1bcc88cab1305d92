package pagination

import (
	"sort"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// SortNewestFirst orders entries by (entry date, created at, id) descending, in place.
func SortNewestFirst(entries []domain.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return CursorFor(entries[i]).After(entries[j])
	})
}

// SortPostingOrder orders entries by (created at, id) ascending, in place.
func SortPostingOrder(entries []domain.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// Page cuts one page out of entries already sorted newest first. It returns
// the page and a token for the following page, nil on the last page.
// A malformed token fails with ErrValidation.
func Page(sorted []domain.JournalEntry, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	start := 0
	if nextToken != nil && *nextToken != "" {
		cursor, err := DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		start = len(sorted)
		for i, e := range sorted {
			if cursor.After(e) {
				start = i
				break
			}
		}
	}

	end := len(sorted)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	page := make([]domain.JournalEntry, end-start)
	copy(page, sorted[start:end])

	if end >= len(sorted) || len(page) == 0 {
		return page, nil, nil
	}
	token := EncodeToken(CursorFor(page[len(page)-1]))
	return page, &token, nil
}
