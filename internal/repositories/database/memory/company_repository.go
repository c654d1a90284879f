package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type companyRepository struct {
	mu     sync.RWMutex
	byID   map[string]domain.Company
	byCode map[string]string
}

func newCompanyRepository() *companyRepository {
	return &companyRepository{
		byID:   make(map[string]domain.Company),
		byCode: make(map[string]string),
	}
}

var _ portsrepo.CompanyRepositoryFacade = (*companyRepository)(nil)

func (r *companyRepository) SaveCompany(_ context.Context, company domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := strings.ToUpper(company.Code)
	if _, exists := r.byCode[code]; exists {
		return fmt.Errorf("%w: company with code %s already exists", apperrors.ErrDuplicate, company.Code)
	}
	if _, exists := r.byID[company.CompanyID]; exists {
		return fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, company.CompanyID)
	}
	r.byID[company.CompanyID] = company
	r.byCode[code] = company.CompanyID
	return nil
}

func (r *companyRepository) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[companyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *companyRepository) FindCompanyByCode(_ context.Context, code string) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := r.byID[id]
	return &c, nil
}

func (r *companyRepository) ListCompanies(_ context.Context) ([]domain.Company, error) {
	r.mu.RLock()
	out := make([]domain.Company, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b domain.Company) int { return strings.Compare(a.Code, b.Code) })
	return out, nil
}
