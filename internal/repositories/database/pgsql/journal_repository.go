package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/nonprofit_ledger/internal/models"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/accounting"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/mapping"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const selectJournal = `
	SELECT journal_id, entity_id, entry_date, description, reference_number, status,
	       source_type, source_id, created_at, created_by, posted_at, posted_by, voided_at, voided_by
	FROM journal_entries
`

const selectLines = `
	SELECT l.line_id, l.journal_id, l.line_number, l.account_code, l.debit_amount, l.credit_amount,
	       l.description, l.memo, l.reconciled,
	       a.account_id, a.code, a.name, a.account_type, a.is_active
	FROM journal_lines l
	JOIN accounts a ON a.code = l.account_code
	WHERE l.journal_id = ANY($1)
	ORDER BY l.journal_id, l.line_number;
`

// entityFilter maps the "all entities" keyword to the empty string the queries treat as no filter.
func entityFilter(entityID string) string {
	if entityID == ledger.AllEntities {
		return ""
	}
	return entityID
}

// Post saves an entry and its lines within a DB transaction.
func (r *PgxJournalRepository) Post(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := accounting.ValidatePostable(entry); err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournal(entry)
	journalQuery := `
		INSERT INTO journal_entries (
			journal_id, entity_id, entry_date, description, reference_number, status,
			source_type, source_id, created_at, created_by, posted_at, posted_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, journalQuery,
		m.JournalID,
		m.EntityID,
		m.EntryDate,
		m.Description,
		m.ReferenceNumber,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.CreatedAt,
		m.CreatedBy,
		m.PostedAt,
		m.PostedBy,
	)
	if err != nil {
		return nil, translateWriteError(err, "failed to insert journal entry "+m.JournalID)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, line_number, account_code, debit_amount, credit_amount, description, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, line := range entry.Lines {
		l := mapping.ToModelLine(entry.ID, line)
		batch.Queue(lineQuery, l.LineID, l.JournalID, l.LineNumber, l.AccountCode, l.DebitAmount, l.CreditAmount, l.Description, l.Memo)
	}
	// Close reports the first failing command of the batch
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, translateWriteError(err, "failed to insert lines for journal entry "+m.JournalID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

func translateWriteError(err error, msg string) error {
	switch pgErrorCode(err) {
	case uniqueViolation:
		if pgConstraint(err) == sourceIndex {
			return fmt.Errorf("%s: source record already posted: %w", msg, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", msg, apperrors.ErrDuplicate)
	case foreignKeyViolation:
		return apperrors.NewValidationError("lines", "references an account that is not in the chart of accounts")
	case checkViolation:
		return apperrors.NewValidationError("lines", "violates a ledger constraint")
	}
	return apperrors.NewAppError(500, msg, err)
}

// FindJournalByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, r.Pool, entryID)
}

func (r *PgxJournalRepository) findJournal(ctx context.Context, q querier, entryID string) (*domain.JournalEntry, error) {
	m, err := scanJournal(q.QueryRow(ctx, selectJournal+" WHERE journal_id = $1;", entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+entryID, err)
	}
	entries, err := r.withLines(ctx, q, []models.JournalEntry{m})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// ListJournals retrieves a page of entries newest first using keyset pagination.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether another page exists
	fetchLimit := limit + 1

	args := []any{entityFilter(entityID)}
	query := selectJournal + " WHERE ($1 = '' OR entity_id = $1)"
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		// Tuple comparison matches the ORDER BY below
		query += " AND (entry_date, created_at, journal_id) < ($2, $3, $4)"
		args = append(args, cursor.EntryDate.Time(), cursor.CreatedAt, cursor.ID)
	}
	query += " ORDER BY entry_date DESC, created_at DESC, journal_id DESC LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	journals, err := r.queryJournals(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(journals) > limit {
		journals = journals[:limit]
		token := pagination.EncodeToken(pagination.Cursor{
			EntryDate: domain.DateOf(journals[limit-1].EntryDate),
			CreatedAt: journals[limit-1].CreatedAt,
			ID:        journals[limit-1].JournalID,
		})
		next = &token
	}

	entries, err := r.withLines(ctx, r.Pool, journals)
	if err != nil {
		return nil, nil, err
	}
	return entries, next, nil
}

// ListPostedJournals retrieves every posted entry in posting order.
func (r *PgxJournalRepository) ListPostedJournals(ctx context.Context, entityID string) ([]domain.JournalEntry, error) {
	query := selectJournal + `
		WHERE status = 'POSTED' AND ($1 = '' OR entity_id = $1)
		ORDER BY created_at, journal_id;
	`
	journals, err := r.queryJournals(ctx, query, entityFilter(entityID))
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, r.Pool, journals)
}

// VoidJournal marks a posted entry voided.
func (r *PgxJournalRepository) VoidJournal(ctx context.Context, entryID string, userID string, at time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var status models.JournalStatus
	err = tx.QueryRow(ctx, "SELECT status FROM journal_entries WHERE journal_id = $1 FOR UPDATE;", entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to lock journal entry "+entryID, err)
	}
	if status != models.Posted {
		return nil, apperrors.NewValidationError("status", "entry is "+string(status)+", only posted entries can be voided")
	}

	_, err = tx.Exec(ctx, `
		UPDATE journal_entries SET status = 'VOIDED', voided_at = $2, voided_by = $3
		WHERE journal_id = $1;
	`, entryID, at, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to void journal entry "+entryID, err)
	}

	voided, err := r.findJournal(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return voided, nil
}

// SetLineReconciled sets the reconciled flag of a line.
func (r *PgxJournalRepository) SetLineReconciled(ctx context.Context, lineID string, reconciled bool) error {
	tag, err := r.Pool.Exec(ctx, "UPDATE journal_lines SET reconciled = $2 WHERE line_id = $1;", lineID, reconciled)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reconciled flag for line "+lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("journal line %s: %w", lineID, apperrors.ErrNotFound)
	}
	return nil
}

// ReconciledLines returns the IDs of all reconciled lines.
func (r *PgxJournalRepository) ReconciledLines(ctx context.Context) (map[string]bool, error) {
	rows, err := r.Pool.Query(ctx, "SELECT line_id FROM journal_lines WHERE reconciled;")
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciled lines", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciled line", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciled lines", err)
	}
	return out, nil
}

func scanJournal(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalID,
		&m.EntityID,
		&m.EntryDate,
		&m.Description,
		&m.ReferenceNumber,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.PostedAt,
		&m.PostedBy,
		&m.VoidedAt,
		&m.VoidedBy,
	)
	return m, err
}

func (r *PgxJournalRepository) queryJournals(ctx context.Context, query string, args ...any) ([]models.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	journals := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		journals = append(journals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	return journals, nil
}

// withLines loads the lines of the given journals in one query and assembles
// domain entries in the journals' order.
func (r *PgxJournalRepository) withLines(ctx context.Context, q querier, journals []models.JournalEntry) ([]domain.JournalEntry, error) {
	if len(journals) == 0 {
		return []domain.JournalEntry{}, nil
	}
	ids := make([]string, len(journals))
	for i, j := range journals {
		ids[i] = j.JournalID
	}

	rows, err := q.Query(ctx, selectLines, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	byJournal := make(map[string][]models.JournalLine, len(journals))
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.JournalID,
			&l.LineNumber,
			&l.AccountCode,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Description,
			&l.Memo,
			&l.Reconciled,
			&l.Account.AccountID,
			&l.Account.Code,
			&l.Account.Name,
			&l.Account.AccountType,
			&l.Account.IsActive,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		byJournal[l.JournalID] = append(byJournal[l.JournalID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}

	entries := make([]domain.JournalEntry, 0, len(journals))
	for _, j := range journals {
		entries = append(entries, mapping.ToDomainJournal(j, byJournal[j.JournalID]))
	}
	return entries, nil
}
