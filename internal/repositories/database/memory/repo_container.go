// Package memory is the in-process storage backend. It keeps the whole ledger in
// memory behind read-write locks and is the default driver for tests and demos.
package memory

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider returns empty in-memory repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo: newCompanyRepository(),
		AccountRepo: newAccountRepository(),
		JournalRepo: newJournalRepository(),
		UserRepo:    newUserRepository(),
	}
}
