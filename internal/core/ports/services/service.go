package services

// ServiceContainer holds instances of all the application services.
// It is the entry point used by the handlers.
type ServiceContainer struct {
	Company   CompanySvcFacade
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Balance   BalanceSvc
	Reporting ReportingService
	User      UserSvcFacade
	Token     TokenSvcFacade
}
