package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// ChartReaderSvc is the read contract of a company's chart of accounts.
type ChartReaderSvc interface {
	// Resolve finds an account of the company by ID or by code.
	Resolve(ctx context.Context, companyID string, codeOrID string) (*domain.Account, error)

	// Children returns the direct children of an account ordered by code.
	Children(ctx context.Context, companyID string, accountID string) ([]domain.Account, error)

	// IsActive reports whether the account accepts new postings.
	IsActive(ctx context.Context, companyID string, accountID string) (bool, error)
}

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	ChartReaderSvc

	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// ListAccounts retrieves a company's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an account's details. The account type cannot change.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Its history is kept.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
