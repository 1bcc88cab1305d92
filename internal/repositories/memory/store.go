// Package memory is a process-local journal and account store. It backs the
// demo server, the CLI and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/accounting"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/pagination"
)

// Store keeps accounts and journal entries in maps guarded by one RWMutex.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]domain.Account
	entries    map[string]domain.JournalEntry
	lineEntry  map[string]string // line ID -> entry ID
	sources    map[string]string // source ID -> entry ID
	reconciled map[string]bool
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts:   make(map[string]domain.Account),
		entries:    make(map[string]domain.JournalEntry),
		lineEntry:  make(map[string]string),
		sources:    make(map[string]string),
		reconciled: make(map[string]bool),
	}
}

// NewRepositoryProvider returns a provider whose repositories share one new store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := New()
	return portsrepo.RepositoryProvider{AccountRepo: s, JournalRepo: s}
}

// FindAccountByCode retrieves an account by its GL code.
func (s *Store) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[code]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
	}
	return &acc, nil
}

// ListAccounts retrieves every account ordered by code.
func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		all = append(all, acc)
	}
	chart, err := domain.NewChartOfAccounts(all)
	if err != nil {
		return nil, err
	}
	return chart.Accounts(), nil
}

// SaveAccounts upserts accounts by code.
func (s *Store) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range accounts {
		if acc.ID == "" {
			acc.ID = acc.Code
		}
		s.accounts[acc.Code] = acc
	}
	return nil
}

// Post appends a balanced entry.
func (s *Store) Post(_ context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := accounting.ValidatePostable(entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.ID]; exists {
		return nil, fmt.Errorf("journal entry %s: %w", entry.ID, apperrors.ErrDuplicate)
	}
	if posted, taken := s.sources[entry.SourceID]; entry.SourceID != "" && taken {
		return nil, fmt.Errorf("source %s already posted as journal entry %s: %w", entry.SourceID, posted, apperrors.ErrDuplicate)
	}
	for _, line := range entry.Lines {
		if _, ok := s.accounts[line.Account.Code]; !ok {
			return nil, apperrors.NewValidationError("lines", "account "+line.Account.Code+" is not in the chart of accounts")
		}
		if _, taken := s.lineEntry[line.ID]; taken {
			return nil, fmt.Errorf("journal line %s: %w", line.ID, apperrors.ErrDuplicate)
		}
	}

	stored := clone(entry)
	s.entries[stored.ID] = stored
	for _, line := range stored.Lines {
		s.lineEntry[line.ID] = stored.ID
	}
	if stored.SourceID != "" {
		s.sources[stored.SourceID] = stored.ID
	}
	out := clone(stored)
	return &out, nil
}

// FindJournalByID retrieves an entry with its lines.
func (s *Store) FindJournalByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	out := clone(entry)
	return &out, nil
}

// ListJournals retrieves a page of entries newest first.
func (s *Store) ListJournals(_ context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	matching := s.snapshot(entityID, func(domain.JournalEntry) bool { return true })
	pagination.SortNewestFirst(matching)
	return pagination.Page(matching, limit, nextToken)
}

// ListPostedJournals retrieves every posted entry in posting order.
func (s *Store) ListPostedJournals(_ context.Context, entityID string) ([]domain.JournalEntry, error) {
	posted := s.snapshot(entityID, func(e domain.JournalEntry) bool { return e.Status == domain.Posted })
	pagination.SortPostingOrder(posted)
	return posted, nil
}

// VoidJournal marks a posted entry voided.
func (s *Store) VoidJournal(_ context.Context, entryID string, userID string, at time.Time) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	if entry.Status != domain.Posted {
		return nil, apperrors.NewValidationError("status", "entry is "+string(entry.Status)+", only posted entries can be voided")
	}
	entry.Status = domain.Voided
	entry.VoidedAt = &at
	entry.VoidedBy = userID
	s.entries[entryID] = entry
	out := clone(entry)
	return &out, nil
}

// SetLineReconciled sets the reconciled flag of a line.
func (s *Store) SetLineReconciled(_ context.Context, lineID string, reconciled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lineEntry[lineID]; !ok {
		return fmt.Errorf("journal line %s: %w", lineID, apperrors.ErrNotFound)
	}
	if reconciled {
		s.reconciled[lineID] = true
	} else {
		delete(s.reconciled, lineID)
	}
	return nil
}

// ReconciledLines returns the IDs of all reconciled lines.
func (s *Store) ReconciledLines(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.reconciled))
	for id := range s.reconciled {
		out[id] = true
	}
	return out, nil
}

func (s *Store) snapshot(entityID string, keep func(domain.JournalEntry) bool) []domain.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if !matchesEntity(entityID, e) || !keep(e) {
			continue
		}
		out = append(out, clone(e))
	}
	return out
}

func matchesEntity(entityID string, e domain.JournalEntry) bool {
	return entityID == "" || entityID == ledger.AllEntities || e.EntityID == entityID
}

// clone copies the line slice so callers cannot alias stored state.
func clone(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalEntryLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e
}
