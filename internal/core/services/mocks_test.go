package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, entityID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) ListPostedJournals(ctx context.Context, entityID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) Post(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Allow tests to echo the posted entry back.
	if fn, ok := args.Get(0).(func(domain.JournalEntry) *domain.JournalEntry); ok {
		return fn(entry), args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) VoidJournal(ctx context.Context, entryID string, userID string, at time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SetLineReconciled(ctx context.Context, lineID string, reconciled bool) error {
	args := m.Called(ctx, lineID, reconciled)
	return args.Error(0)
}

func (m *MockJournalRepository) ReconciledLines(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

// --- Mock AccountService (as used by JournalService) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountReaderSvc = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) Chart(ctx context.Context) (*domain.ChartOfAccounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccounts), args.Error(1)
}

// --- Fixtures ---

var (
	cashAccount      = domain.Account{ID: "acc-1000", Code: "1000", Name: "Cash", Type: domain.Asset, IsActive: true}
	payablesAccount  = domain.Account{ID: "acc-2000", Code: "2000", Name: "Accounts Payable", Type: domain.Liability, IsActive: true}
	netAssetsAccount = domain.Account{ID: "acc-3000", Code: "3000", Name: "Net Assets", Type: domain.Equity, IsActive: true}
	donationsAccount = domain.Account{ID: "acc-4000", Code: "4000", Name: "Donations", Type: domain.Revenue, IsActive: true}
	grantsAccount    = domain.Account{ID: "acc-4100", Code: "4100", Name: "Grants", Type: domain.Revenue, IsActive: true}
	suppliesAccount  = domain.Account{ID: "acc-5100", Code: "5100", Name: "Program Supplies", Type: domain.Expense, IsActive: true}
	retiredAccount   = domain.Account{ID: "acc-5900", Code: "5900", Name: "Retired", Type: domain.Expense, IsActive: false}
)

func allAccounts() []domain.Account {
	return []domain.Account{cashAccount, payablesAccount, netAssetsAccount, donationsAccount, grantsAccount, suppliesAccount, retiredAccount}
}
