package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal entry with its lines.
	FindJournalByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournals retrieves a page of entries for an entity (or "all"), newest
	// first by (entry date, created at, id). It returns the entries, a token for
	// the next page when more remain, and an error.
	ListJournals(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListPostedJournals retrieves every posted entry for an entity (or "all")
	// in posting order (created at ascending, then id).
	ListPostedJournals(ctx context.Context, entityID string) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data. The store is
// append-only apart from the posted to voided transition.
type JournalWriter interface {
	// Post persists a balanced entry and its lines atomically. Unbalanced or
	// malformed entries fail with ErrValidation. An existing ID, or a non-empty
	// SourceID already posted by another entry, fails with ErrDuplicate. Voiding
	// does not release a SourceID.
	Post(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// VoidJournal marks a posted entry voided. Unknown IDs fail with
	// ErrNotFound, entries that are not posted with ErrValidation.
	VoidJournal(ctx context.Context, entryID string, userID string, at time.Time) (*domain.JournalEntry, error)
}

// LineReconciler tracks the bank-reconciled flag of individual journal lines.
type LineReconciler interface {
	// SetLineReconciled sets the flag on a line. Unknown lines fail with ErrNotFound.
	SetLineReconciled(ctx context.Context, lineID string, reconciled bool) error

	// ReconciledLines returns the IDs of all reconciled lines.
	ReconciledLines(ctx context.Context) (map[string]bool, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LineReconciler
}
