package models

import "time"

// AccountType is the stored (upper-case) form of an account type.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID   string      `db:"account_id"`
	Code        string      `db:"code"` // Unique GL code
	Name        string      `db:"name"`
	AccountType AccountType `db:"account_type"`
	IsActive    bool        `db:"is_active"`
	UpdatedAt   time.Time   `db:"updated_at"`
}
