package mapping

import (
	"strings"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	id := d.ID
	if id == "" {
		id = d.Code
	}
	return models.Account{
		AccountID:   id,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: models.AccountType(strings.ToUpper(string(d.Type))),
		IsActive:    d.IsActive,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		ID:       m.AccountID,
		Code:     m.Code,
		Name:     m.Name,
		Type:     domain.AccountType(strings.ToLower(string(m.AccountType))),
		IsActive: m.IsActive,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccount(m)
	}
	return out
}
