package services

import "github.com/SscSPs/ledger_engine/internal/core/domain"

// chartTemplateEntry is a predefined account of the starter chart.
type chartTemplateEntry struct {
	Code        string
	Name        string
	Type        domain.AccountType
	ParentCode  string
	Description string
}

// defaultChart is the starter chart seeded on request when a company is created.
// Group accounts (x000) come before their children so parents exist when children are saved.
var defaultChart = []chartTemplateEntry{
	{Code: "1000", Name: "Assets", Type: domain.Asset, Description: "Resources owned by the company"},
	{Code: "1010", Name: "Cash", Type: domain.Asset, ParentCode: "1000", Description: "Cash on hand and at bank"},
	{Code: "1200", Name: "Accounts Receivable", Type: domain.Asset, ParentCode: "1000", Description: "Amounts owed by customers"},
	{Code: "1500", Name: "Equipment", Type: domain.Asset, ParentCode: "1000", Description: "Long-term tangible assets"},

	{Code: "2000", Name: "Liabilities", Type: domain.Liability, Description: "Obligations owed to others"},
	{Code: "2010", Name: "Accounts Payable", Type: domain.Liability, ParentCode: "2000", Description: "Amounts owed to suppliers"},
	{Code: "2100", Name: "Loans Payable", Type: domain.Liability, ParentCode: "2000", Description: "Outstanding loan obligations"},

	{Code: "3000", Name: "Equity", Type: domain.Equity, Description: "Owners' residual interest"},
	{Code: "3010", Name: "Owner's Capital", Type: domain.Equity, ParentCode: "3000", Description: "Capital contributed by owners"},
	{Code: "3100", Name: "Retained Earnings", Type: domain.Equity, ParentCode: "3000", Description: "Accumulated profits retained in the company"},

	{Code: "4000", Name: "Revenue", Type: domain.Revenue, Description: "Income from operations"},
	{Code: "4100", Name: "Sales Revenue", Type: domain.Revenue, ParentCode: "4000", Description: "Income from goods and services sold"},
	{Code: "4200", Name: "Interest Income", Type: domain.Revenue, ParentCode: "4000", Description: "Income earned from interest"},

	{Code: "5000", Name: "Expenses", Type: domain.Expense, Description: "Costs of operations"},
	{Code: "5100", Name: "Operating Expenses", Type: domain.Expense, ParentCode: "5000", Description: "General operating costs"},
	{Code: "5200", Name: "Salaries and Wages", Type: domain.Expense, ParentCode: "5000", Description: "Employee compensation"},
	{Code: "5300", Name: "Rent", Type: domain.Expense, ParentCode: "5000", Description: "Premises rent"},
}
