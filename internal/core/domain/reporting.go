package domain

import "time"

// AccountAmount is one account line of a financial statement, in natural sign.
type AccountAmount struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Amount      Money       `json:"amount"`
}

// StatementSection groups statement lines with their subtotal.
type StatementSection struct {
	Lines []AccountAmount `json:"lines"`
	Total Money           `json:"total"`
}

// TrialBalanceRow places an account balance in the debit or credit column.
type TrialBalanceRow struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	Debit       Money       `json:"debit"`
	Credit      Money       `json:"credit"`
}

// TrialBalance lists every account's balance; the two column totals always agree.
type TrialBalance struct {
	CompanyID   string            `json:"companyID"`
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  Money             `json:"totalDebit"`
	TotalCredit Money             `json:"totalCredit"`
}

// Balanced reports whether the column totals agree.
func (t TrialBalance) Balanced() bool {
	return t.TotalDebit.Equal(t.TotalCredit)
}

// BalanceSheet reports financial position at a date.
// Equity includes the computed retained and current-year earnings, since revenue
// and expense accounts are never closed into equity by posting.
type BalanceSheet struct {
	CompanyID                 string           `json:"companyID"`
	AsOf                      time.Time        `json:"asOf"`
	Assets                    StatementSection `json:"assets"`
	Liabilities               StatementSection `json:"liabilities"`
	Equity                    StatementSection `json:"equity"`
	RetainedEarnings          Money            `json:"retainedEarnings"`
	CurrentYearEarnings       Money            `json:"currentYearEarnings"`
	TotalLiabilitiesAndEquity Money            `json:"totalLiabilitiesAndEquity"`
}

// Balanced reports whether assets equal liabilities plus equity.
func (b BalanceSheet) Balanced() bool {
	return b.Assets.Total.Equal(b.TotalLiabilitiesAndEquity)
}

// IncomeStatement reports performance over an inclusive period.
type IncomeStatement struct {
	CompanyID string           `json:"companyID"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Revenue   StatementSection `json:"revenue"`
	Expenses  StatementSection `json:"expenses"`
	NetIncome Money            `json:"netIncome"`
}

// CompanySummary is one company's dashboard card.
type CompanySummary struct {
	CompanyID        string `json:"companyID"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Currency         string `json:"currency"`
	TotalAssets      Money  `json:"totalAssets"`
	TotalLiabilities Money  `json:"totalLiabilities"`
	TotalEquity      Money  `json:"totalEquity"`
	Revenue          Money  `json:"revenue"`
	Expenses         Money  `json:"expenses"`
	NetIncome        Money  `json:"netIncome"`
}

// CurrencyTotals sums dashboard figures of the companies sharing a currency.
// Amounts in different currencies are never added together.
type CurrencyTotals struct {
	Currency         string `json:"currency"`
	TotalAssets      Money  `json:"totalAssets"`
	TotalLiabilities Money  `json:"totalLiabilities"`
	NetIncome        Money  `json:"netIncome"`
}

// Dashboard aggregates position at AsOf and performance over one calendar month.
type Dashboard struct {
	AsOf        time.Time        `json:"asOf"`
	PeriodStart time.Time        `json:"periodStart"`
	PeriodEnd   time.Time        `json:"periodEnd"`
	Companies   []CompanySummary `json:"companies"`
	Totals      []CurrencyTotals `json:"totals"`
}

// LedgerLine is a posted line with the account's natural balance after it.
type LedgerLine struct {
	PostedLine
	RunningBalance Money `json:"runningBalance"`
}

// AccountLedger is an account's activity over a period, bracketed by its balances.
type AccountLedger struct {
	Account        Account      `json:"account"`
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	OpeningBalance Money        `json:"openingBalance"`
	Lines          []LedgerLine `json:"lines"`
	ClosingBalance Money        `json:"closingBalance"`
}
