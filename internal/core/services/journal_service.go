package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/journal"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
)

const (
	defaultJournalPageSize = 20
	maxJournalPageSize     = 100
)

// journalService posts captures to the journal store and reads them back.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountReaderSvc
	newID       func() string
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalClock sets the clock used for audit timestamps.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// WithJournalIDGenerator sets the generator for entry and line IDs.
func WithJournalIDGenerator(newID func() string) JournalServiceOption {
	return func(s *journalService) {
		s.newID = newID
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountReaderSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PostCapture builds a balanced two-line entry from req and posts it.
func (s *journalService) PostCapture(ctx context.Context, req dto.PostCaptureRequest, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	if _, ok := journal.ExpectedAccountType(req.Type); !ok {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unsupported capture type %q", req.Type))
	}

	chart, err := s.accountSvc.Chart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}

	counter := domain.Account{Code: strings.TrimSpace(req.AccountCode)}
	if counter.Code != "" {
		acc, found := chart.Lookup(counter.Code)
		if !found {
			return nil, apperrors.NewValidationError("accountCode", fmt.Sprintf("unknown account code %s", counter.Code))
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError("accountCode", fmt.Sprintf("account %s is inactive", acc.FullName()))
		}
		counter = acc
	}

	record := domain.CaptureRecord{
		ID:              req.ID,
		Amount:          req.Amount,
		Date:            req.Date,
		Counterparty:    req.Counterparty,
		Account:         counter,
		EntityID:        req.EntityID,
		Memo:            req.Memo,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
	}

	opts := []journal.BuildOption{journal.WithActor(userID), journal.WithClock(s.Now)}
	if s.newID != nil {
		opts = append(opts, journal.WithIDGenerator(s.newID))
	}

	entry, err := journal.Build(chart, req.Type, record, opts...)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			s.LogError(ctx, err, "Chart of accounts is missing the cash account", slog.String("code", domain.CashAccountCode))
		}
		return nil, err
	}

	posted, err := s.journalRepo.Post(ctx, *entry)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entry.ID))
		}
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", posted.ID),
		slog.String("entity_id", posted.EntityID),
		slog.String("source_type", string(posted.SourceType)),
		slog.String("amount", domain.FormatAmount(posted.Amount())))
	return posted, nil
}

// GetEntry retrieves a specific journal entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves a page of journal entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	if limit > maxJournalPageSize {
		limit = maxJournalPageSize
	}

	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	entries, next, err := s.journalRepo.ListJournals(ctx, params.EntityID, limit, nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries", slog.String("entity_id", params.EntityID))
		}
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return &dto.ListJournalsResponse{
		Journals:  dto.ToJournalResponses(entries),
		NextToken: next,
	}, nil
}

// VoidEntry marks a posted entry voided. It drops out of the ledger and reports.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	voided, err := s.journalRepo.VoidJournal(ctx, entryID, userID, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to void journal entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Journal entry voided", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return voided, nil
}
