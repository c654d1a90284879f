package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

type containerOptions struct {
	authorize bool
}

// ContainerOption is a functional option for NewContainer.
type ContainerOption func(*containerOptions)

// WithoutAuthorization builds services that skip role checks, for embedding the
// engine in a trusted process.
func WithoutAuthorization() ContainerOption {
	return func(o *containerOptions) {
		o.authorize = false
	}
}

// NewContainer creates a service container with properly initialized dependencies.
// Every ledger-mutating service shares one CompanyLocks table.
func NewContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config, opts ...ContainerOption) *portssvc.ServiceContainer {
	o := containerOptions{authorize: true}
	for _, opt := range opts {
		opt(&o)
	}

	locks := NewCompanyLocks()
	container := &portssvc.ServiceContainer{}

	// Users first, since every other service consults it for role checks
	container.User = NewUserService(repos.UserRepo)
	var authorizer portssvc.UserAuthorizerSvc
	if o.authorize {
		authorizer = container.User
	}

	container.Company = NewCompanyService(repos.CompanyRepo, repos.AccountRepo, locks,
		WithCompanyAuthorizer(authorizer))

	container.Account = NewAccountService(repos.AccountRepo, repos.CompanyRepo, locks,
		WithAccountAuthorizer(authorizer))

	container.Journal = NewJournalService(repos.JournalRepo, repos.CompanyRepo, container.Account, locks,
		WithJournalAuthorizer(authorizer))

	container.Balance = NewBalanceService(repos.JournalRepo, repos.AccountRepo, repos.CompanyRepo, container.Account,
		WithBalanceAuthorizer(authorizer))

	container.Reporting = NewReportingService(repos.JournalRepo, repos.AccountRepo, repos.CompanyRepo,
		WithReportingAuthorizer(authorizer))

	container.Token = NewTokenService(cfg)

	return container
}
