// Package bolt persists accounts and journal entries in an embedded BoltDB file.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/accounting"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/pagination"
)

var (
	accountsBucket   = []byte("accounts")
	journalsBucket   = []byte("journals")
	linesBucket      = []byte("journal_lines") // line ID -> entry ID
	reconciledBucket = []byte("reconciled_lines")
	sourcesBucket    = []byte("source_ids") // source ID -> entry ID
)

// Store implements the account and journal repositories on BoltDB.
// Each write runs in its own bbolt read-write transaction.
type Store struct {
	db *bbolt.DB
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
)

// Open opens (or creates) the database file at path and ensures its buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{accountsBucket, journalsBucket, linesBucket, reconciledBucket, sourcesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// NewRepositoryProvider returns a provider backed by s.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{AccountRepo: s, JournalRepo: s}
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindAccountByCode retrieves an account by its GL code.
func (s *Store) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	var acc *domain.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(accountsBucket).Get([]byte(code))
		if data == nil {
			return fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
		}
		return json.Unmarshal(data, &acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// ListAccounts retrieves every account ordered by code. Bolt keys iterate in
// byte order, which is code order.
func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(accountsBucket).ForEach(func(_, v []byte) error {
			var acc domain.Account
			if err := json.Unmarshal(v, &acc); err != nil {
				return fmt.Errorf("unmarshaling account: %w", err)
			}
			accounts = append(accounts, acc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts upserts accounts by code in one transaction.
func (s *Store) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(accountsBucket)
		for _, acc := range accounts {
			if acc.ID == "" {
				acc.ID = acc.Code
			}
			data, err := json.Marshal(acc)
			if err != nil {
				return fmt.Errorf("marshaling account: %w", err)
			}
			if err := bucket.Put([]byte(acc.Code), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Post appends a balanced entry and indexes its lines atomically.
func (s *Store) Post(_ context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := accounting.ValidatePostable(entry); err != nil {
		return nil, err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshaling journal entry: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		lines := tx.Bucket(linesBucket)
		accounts := tx.Bucket(accountsBucket)

		if journals.Get([]byte(entry.ID)) != nil {
			return fmt.Errorf("journal entry %s: %w", entry.ID, apperrors.ErrDuplicate)
		}
		if entry.SourceID != "" {
			sources := tx.Bucket(sourcesBucket)
			if posted := sources.Get([]byte(entry.SourceID)); posted != nil {
				return fmt.Errorf("source %s already posted as journal entry %s: %w", entry.SourceID, posted, apperrors.ErrDuplicate)
			}
			if err := sources.Put([]byte(entry.SourceID), []byte(entry.ID)); err != nil {
				return err
			}
		}
		for _, line := range entry.Lines {
			if accounts.Get([]byte(line.Account.Code)) == nil {
				return apperrors.NewValidationError("lines", "account "+line.Account.Code+" is not in the chart of accounts")
			}
			if lines.Get([]byte(line.ID)) != nil {
				return fmt.Errorf("journal line %s: %w", line.ID, apperrors.ErrDuplicate)
			}
			if err := lines.Put([]byte(line.ID), []byte(entry.ID)); err != nil {
				return err
			}
		}
		return journals.Put([]byte(entry.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindJournalByID retrieves an entry with its lines.
func (s *Store) FindJournalByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(journalsBucket).Get([]byte(entryID))
		if data == nil {
			return fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListJournals retrieves a page of entries newest first.
func (s *Store) ListJournals(_ context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	entries, err := s.scan(entityID, func(domain.JournalEntry) bool { return true })
	if err != nil {
		return nil, nil, err
	}
	pagination.SortNewestFirst(entries)
	return pagination.Page(entries, limit, nextToken)
}

// ListPostedJournals retrieves every posted entry in posting order.
func (s *Store) ListPostedJournals(_ context.Context, entityID string) ([]domain.JournalEntry, error) {
	entries, err := s.scan(entityID, func(e domain.JournalEntry) bool { return e.Status == domain.Posted })
	if err != nil {
		return nil, err
	}
	pagination.SortPostingOrder(entries)
	return entries, nil
}

// VoidJournal marks a posted entry voided.
func (s *Store) VoidJournal(_ context.Context, entryID string, userID string, at time.Time) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := s.db.Update(func(tx *bbolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		data := journals.Get([]byte(entryID))
		if data == nil {
			return fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("unmarshaling journal entry: %w", err)
		}
		if entry.Status != domain.Posted {
			return apperrors.NewValidationError("status", "entry is "+string(entry.Status)+", only posted entries can be voided")
		}
		entry.Status = domain.Voided
		entry.VoidedAt = &at
		entry.VoidedBy = userID
		updated, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling journal entry: %w", err)
		}
		return journals.Put([]byte(entryID), updated)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetLineReconciled sets the reconciled flag of a line.
func (s *Store) SetLineReconciled(_ context.Context, lineID string, reconciled bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(linesBucket).Get([]byte(lineID)) == nil {
			return fmt.Errorf("journal line %s: %w", lineID, apperrors.ErrNotFound)
		}
		bucket := tx.Bucket(reconciledBucket)
		if reconciled {
			return bucket.Put([]byte(lineID), []byte{1})
		}
		return bucket.Delete([]byte(lineID))
	})
}

// ReconciledLines returns the IDs of all reconciled lines.
func (s *Store) ReconciledLines(_ context.Context) (map[string]bool, error) {
	out := make(map[string]bool)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(reconciledBucket).ForEach(func(k, _ []byte) error {
			out[string(k)] = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) scan(entityID string, keep func(domain.JournalEntry) bool) ([]domain.JournalEntry, error) {
	entries := make([]domain.JournalEntry, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(journalsBucket).ForEach(func(_, v []byte) error {
			var entry domain.JournalEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshaling journal entry: %w", err)
			}
			if entityID != "" && entityID != ledger.AllEntities && entry.EntityID != entityID {
				return nil
			}
			if keep(entry) {
				entries = append(entries, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
