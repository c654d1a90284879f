package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:       d.CompanyID,
		Code:            d.Code,
		Name:            d.Name,
		FiscalYearStart: d.FiscalYearStart,
		Currency:        d.Currency,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:       m.CompanyID,
		Code:            m.Code,
		Name:            m.Name,
		FiscalYearStart: domain.NormalizeDate(m.FiscalYearStart),
		Currency:        m.Currency,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCompanySlice converts a slice of model Companies to a slice of domain Companies
func ToDomainCompanySlice(ms []models.Company) []domain.Company {
	ds := make([]domain.Company, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCompany(m)
	}
	return ds
}
