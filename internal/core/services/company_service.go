package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

const defaultCurrency = "USD"

// companyService manages the set of books.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	locks       *CompanyLocks
}

// CompanyServiceOption is a functional option for configuring the company service
type CompanyServiceOption func(*companyService)

// WithCompanyAuthorizer sets the role authorizer of the company service.
func WithCompanyAuthorizer(authorizer portssvc.UserAuthorizerSvc) CompanyServiceOption {
	return func(s *companyService) {
		s.Authorizer = authorizer
	}
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, locks *CompanyLocks, options ...CompanyServiceOption) portssvc.CompanySvcFacade {
	svc := &companyService{
		companyRepo: companyRepo,
		accountRepo: accountRepo,
		locks:       locks,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, userID string) (*domain.Company, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: company code and name are required", apperrors.ErrValidation)
	}

	currencyCode := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currencyCode == "" {
		currencyCode = defaultCurrency
	}
	if _, err := domain.CurrencyScale(currencyCode); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	fiscalStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if req.FiscalYearStart != "" {
		parsed, err := domain.ParseDate(req.FiscalYearStart)
		if err != nil {
			return nil, fmt.Errorf("%w: fiscal year start %q is not a valid YYYY-MM-DD date", apperrors.ErrValidation, req.FiscalYearStart)
		}
		fiscalStart = parsed
	}

	company := domain.Company{
		CompanyID:       uuid.NewString(),
		Code:            code,
		Name:            name,
		FiscalYearStart: fiscalStart,
		Currency:        currencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("company_code", code))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	if req.SeedDefaultChart {
		if err := s.seedChart(ctx, company, userID); err != nil {
			s.LogError(ctx, err, "Failed to seed default chart of accounts", slog.String("company_id", company.CompanyID))
			return nil, fmt.Errorf("company created but chart seeding failed: %w", err)
		}
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("company_code", company.Code),
		slog.String("currency", company.Currency),
		slog.Bool("seeded_chart", req.SeedDefaultChart))
	return &company, nil
}

func (s *companyService) seedChart(ctx context.Context, company domain.Company, userID string) error {
	unlock := s.locks.Lock(company.CompanyID)
	defer unlock()

	now := time.Now().UTC()
	idsByCode := make(map[string]string, len(defaultChart))
	for _, entry := range defaultChart {
		acc := domain.Account{
			AccountID:   uuid.NewString(),
			CompanyID:   company.CompanyID,
			Code:        entry.Code,
			Name:        entry.Name,
			AccountType: entry.Type,
			Description: entry.Description,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if entry.ParentCode != "" {
			acc.ParentAccountID = idsByCode[entry.ParentCode]
		}
		if err := s.accountRepo.SaveAccount(ctx, acc); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", entry.Code, err)
		}
		idsByCode[entry.Code] = acc.AccountID
	}
	return nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string, userID string) (*domain.Company, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("company %s: %w", companyID, err)
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}
