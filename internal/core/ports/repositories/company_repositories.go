package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CompanyReader defines read operations for companies
type CompanyReader interface {
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error)
	// ListCompanies returns all companies ordered by code.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// CompanyWriter defines write operations for companies
type CompanyWriter interface {
	// SaveCompany persists a new company. A duplicate code yields apperrors.ErrDuplicate.
	SaveCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
