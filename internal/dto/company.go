package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a new company.
type CreateCompanyRequest struct {
	Code            string `json:"code" binding:"required,max=32"`
	Name            string `json:"name" binding:"required,max=255"`
	FiscalYearStart string `json:"fiscalYearStart" binding:"omitempty,calendar_date"` // YYYY-MM-DD, defaults to January 1st
	Currency        string `json:"currency" binding:"omitempty,len=3"`               // ISO 4217, defaults to USD
	// SeedDefaultChart creates the standard starter chart of accounts with the company.
	SeedDefaultChart bool `json:"seedDefaultChart"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID       string    `json:"companyID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	FiscalYearStart string    `json:"fiscalYearStart"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// ListCompaniesResponse wraps the list of companies.
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:       c.CompanyID,
		Code:            c.Code,
		Name:            c.Name,
		FiscalYearStart: c.FiscalYearStart.Format(domain.DateLayout),
		Currency:        c.Currency,
		CreatedAt:       c.CreatedAt,
		CreatedBy:       c.CreatedBy,
	}
}

// ToListCompaniesResponse converts a slice of domain.Company to ListCompaniesResponse DTO
func ToListCompaniesResponse(companies []domain.Company) ListCompaniesResponse {
	resp := ListCompaniesResponse{Companies: make([]CompanyResponse, len(companies))}
	for i := range companies {
		resp.Companies[i] = ToCompanyResponse(&companies[i])
	}
	return resp
}
