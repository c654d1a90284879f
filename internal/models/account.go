package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a row of the accounts table.
// ParentAccountID is NULL for top-level accounts.
type Account struct {
	AccountID       string      `db:"account_id"`
	CompanyID       string      `db:"company_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID *string     `db:"parent_account_id"`
	Description     string      `db:"description"`
	IsActive        bool        `db:"is_active"`
	AuditFields
}
