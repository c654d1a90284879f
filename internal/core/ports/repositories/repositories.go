package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the in-memory and the PostgreSQL backends produce one.
type RepositoryProvider struct {
	CompanyRepo CompanyRepositoryFacade
	AccountRepo AccountRepositoryFacade
	JournalRepo JournalRepositoryFacade
	UserRepo    UserRepositoryFacade
}
