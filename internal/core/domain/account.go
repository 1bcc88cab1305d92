package domain

import (
	"fmt"
	"sort"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// CashAccountCode is the chart-of-accounts code of the operating cash account
// every capture posts against.
const CashAccountCode = "1000"

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a chart-of-accounts entry. Accounts are immutable reference data.
type Account struct {
	ID       string      `json:"id"`
	Code     string      `json:"code"` // Short numeric GL code, e.g. "1000"
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	IsActive bool        `json:"is_active"`
}

// FullName returns "{code} - {name}".
func (a Account) FullName() string {
	return fmt.Sprintf("%s - %s", a.Code, a.Name)
}

// ChartOfAccounts is the catalog of accounts a ledger posts against, keyed by code.
type ChartOfAccounts struct {
	byCode map[string]Account
	codes  []string
}

// NewChartOfAccounts indexes accounts by code. Duplicate codes are rejected.
func NewChartOfAccounts(accounts []Account) (*ChartOfAccounts, error) {
	c := &ChartOfAccounts{byCode: make(map[string]Account, len(accounts))}
	for _, acc := range accounts {
		if _, exists := c.byCode[acc.Code]; exists {
			return nil, fmt.Errorf("duplicate account code %s", acc.Code)
		}
		c.byCode[acc.Code] = acc
		c.codes = append(c.codes, acc.Code)
	}
	sort.Strings(c.codes)
	return c, nil
}

// Lookup returns the account with the given code.
func (c *ChartOfAccounts) Lookup(code string) (Account, bool) {
	if c == nil {
		return Account{}, false
	}
	acc, ok := c.byCode[code]
	return acc, ok
}

// Accounts returns all accounts ordered by code.
func (c *ChartOfAccounts) Accounts() []Account {
	if c == nil {
		return nil
	}
	out := make([]Account, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, c.byCode[code])
	}
	return out
}

// Len returns the number of accounts in the chart.
func (c *ChartOfAccounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.codes)
}
