package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade

	mu    sync.RWMutex
	chart *domain.ChartOfAccounts
}

// NewAccountService creates a new account service backed by repo.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByCode retrieves a specific account by its GL code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves the chart of accounts filtered by params.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	filtered := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if params.Type != "" && acc.Type != params.Type {
			continue
		}
		if params.Active != nil && acc.IsActive != *params.Active {
			continue
		}
		filtered = append(filtered, acc)
	}

	s.LogDebug(ctx, "Accounts listed", slog.Int("count", len(filtered)))
	return filtered, nil
}

// Chart returns the cached chart of accounts, loading it from the store on first use.
func (s *accountService) Chart(ctx context.Context) (*domain.ChartOfAccounts, error) {
	s.mu.RLock()
	chart := s.chart
	s.mu.RUnlock()
	if chart != nil {
		return chart, nil
	}

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart of accounts")
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	chart, err = domain.NewChartOfAccounts(accounts)
	if err != nil {
		return nil, fmt.Errorf("stored chart of accounts is invalid: %w", err)
	}

	s.mu.Lock()
	s.chart = chart
	s.mu.Unlock()
	return chart, nil
}

// SyncChart stores the configured chart of accounts and caches it.
func (s *accountService) SyncChart(ctx context.Context, chart *domain.ChartOfAccounts) error {
	if err := s.accountRepo.SaveAccounts(ctx, chart.Accounts()); err != nil {
		s.LogError(ctx, err, "Failed to save chart of accounts")
		return fmt.Errorf("failed to save chart of accounts: %w", err)
	}

	s.mu.Lock()
	s.chart = chart
	s.mu.Unlock()

	s.LogInfo(ctx, "Chart of accounts synced", slog.Int("accounts", chart.Len()))
	return nil
}
