package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	CompanyID       string             `json:"companyID" binding:"required"`
	Code            string             `json:"code" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string             `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Code            *string             `json:"code"`
	Name            *string             `json:"name"`
	Description     *string             `json:"description"`
	ParentAccountID *string             `json:"parentAccountID"` // empty string detaches the account
	AccountType     *domain.AccountType `json:"accountType"`     // immutable, accepted only when unchanged
	IsActive        *bool               `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	CompanyID       string             `json:"companyID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	NormalSide      domain.Side        `json:"normalSide"`
	ParentAccountID string             `json:"parentAccountID"` // Note: Empty string for top-level accounts
	Description     string             `json:"description"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps a chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceResponse is an account balance at a date, in natural sign.
type AccountBalanceResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	AccountType domain.AccountType `json:"accountType"`
	AsOf        string             `json:"asOf"`
	Balance     domain.Money       `json:"balance"`
	Subtree     *domain.Money      `json:"subtreeBalance,omitempty"`
}

// LedgerLineResponse is one row of an account ledger.
type LedgerLineResponse struct {
	EntryID        string       `json:"entryID"`
	Date           string       `json:"date"`
	Description    string       `json:"description"`
	Reference      string       `json:"reference,omitempty"`
	Debit          domain.Money `json:"debit"`
	Credit         domain.Money `json:"credit"`
	RunningBalance domain.Money `json:"runningBalance"`
}

// AccountLedgerResponse is an account's activity between two dates.
type AccountLedgerResponse struct {
	Account        AccountResponse      `json:"account"`
	StartDate      string               `json:"startDate"`
	EndDate        string               `json:"endDate"`
	OpeningBalance domain.Money         `json:"openingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
	ClosingBalance domain.Money         `json:"closingBalance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		CompanyID:       acc.CompanyID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		NormalSide:      acc.AccountType.NormalSide(),
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountsResponse converts a slice of domain.Account to ListAccountsResponse DTO
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = ToAccountResponse(&accounts[i])
	}
	return resp
}

// ToAccountLedgerResponse converts a domain.AccountLedger to its DTO.
func ToAccountLedgerResponse(l *domain.AccountLedger) AccountLedgerResponse {
	resp := AccountLedgerResponse{
		Account:        ToAccountResponse(&l.Account),
		StartDate:      l.StartDate.Format(domain.DateLayout),
		EndDate:        l.EndDate.Format(domain.DateLayout),
		OpeningBalance: l.OpeningBalance,
		ClosingBalance: l.ClosingBalance,
		Lines:          make([]LedgerLineResponse, len(l.Lines)),
	}
	for i, line := range l.Lines {
		resp.Lines[i] = LedgerLineResponse{
			EntryID:        line.EntryID,
			Date:           line.Date.Format(domain.DateLayout),
			Description:    line.EntryDescription,
			Reference:      line.Reference,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: line.RunningBalance,
		}
	}
	return resp
}

// ListAccountsParams selects the chart to list.
type ListAccountsParams struct {
	CompanyID string `form:"company_id" binding:"required"`
}

// AccountBalanceParams selects the balance date and whether descendants are rolled up.
type AccountBalanceParams struct {
	AsOfDate       string `form:"as_of_date" binding:"omitempty,calendar_date"`
	IncludeSubtree bool   `form:"include_subtree"`
}
