// Package chart loads the chart of accounts reference file.
package chart

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

//go:embed default_chart.yaml
var defaultChart []byte

// File is the YAML layout of a chart of accounts.
type File struct {
	Accounts []AccountDef `yaml:"accounts"`
}

// AccountDef is one account in the file. Active defaults to true.
type AccountDef struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Active *bool  `yaml:"active"`
}

// Default returns the embedded chart.
func Default() (*domain.ChartOfAccounts, error) {
	return Parse(defaultChart)
}

// Load reads a chart from path, or the embedded default when path is empty.
func Load(path string) (*domain.ChartOfAccounts, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart of accounts: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a chart. Every account needs a code, a name
// and one of the five account types; codes must be unique.
func Parse(data []byte) (*domain.ChartOfAccounts, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse chart of accounts: %w", err)
	}
	if len(f.Accounts) == 0 {
		return nil, fmt.Errorf("chart of accounts has no accounts")
	}

	accounts := make([]domain.Account, 0, len(f.Accounts))
	for i, def := range f.Accounts {
		acc, err := def.toAccount()
		if err != nil {
			return nil, fmt.Errorf("account #%d: %w", i+1, err)
		}
		accounts = append(accounts, acc)
	}
	return domain.NewChartOfAccounts(accounts)
}

func (s AccountDef) toAccount() (domain.Account, error) {
	code := strings.TrimSpace(s.Code)
	name := strings.TrimSpace(s.Name)
	if code == "" {
		return domain.Account{}, fmt.Errorf("code is required")
	}
	if name == "" {
		return domain.Account{}, fmt.Errorf("name is required for code %s", code)
	}
	t := domain.AccountType(strings.ToLower(strings.TrimSpace(s.Type)))
	if !t.Valid() {
		return domain.Account{}, fmt.Errorf("unknown account type %q for code %s", s.Type, code)
	}
	active := true
	if s.Active != nil {
		active = *s.Active
	}
	return domain.Account{ID: code, Code: code, Name: name, Type: t, IsActive: active}, nil
}
