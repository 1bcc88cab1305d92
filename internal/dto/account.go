package dto

import (
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// ListAccountsParams filters the chart of accounts.
type ListAccountsParams struct {
	Type   domain.AccountType `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	Active *bool              `form:"active"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	FullName    string             `json:"fullName"`
	AccountType domain.AccountType `json:"accountType"`
	IsActive    bool               `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.ID,
		Code:        acc.Code,
		Name:        acc.Name,
		FullName:    acc.FullName(),
		AccountType: acc.Type,
		IsActive:    acc.IsActive,
	}
}

// ToAccountResponses converts accounts to their response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
