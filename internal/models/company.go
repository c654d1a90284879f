package models

import "time"

// Company is a row of the companies table.
type Company struct {
	CompanyID       string    `db:"company_id"`
	Code            string    `db:"code"`
	Name            string    `db:"name"`
	FiscalYearStart time.Time `db:"fiscal_year_start"`
	Currency        string    `db:"currency"`
	AuditFields
}
