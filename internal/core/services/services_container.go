package services

import (
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, journalOptions ...JournalServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first; journal posting resolves codes through its chart.
	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, journalOptions...)
	container.Ledger = NewLedgerService(repos.JournalRepo)
	container.Reporting = NewReportingService(repos.JournalRepo)

	return container
}
