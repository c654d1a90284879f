package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string       `json:"accountID"`
	Code        string       `json:"code"`
	AccountName string       `json:"accountName"`
	AccountType string       `json:"accountType"`
	Debit       domain.Money `json:"debit" swaggertype:"string"`
	Credit      domain.Money `json:"credit" swaggertype:"string"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	CompanyID string                    `json:"companyID"`
	AsOf      string                    `json:"asOf"`
	Rows      []TrialBalanceRowResponse `json:"rows"`
	Totals    struct {
		Debit  domain.Money `json:"debit" swaggertype:"string"`
		Credit domain.Money `json:"credit" swaggertype:"string"`
	} `json:"totals"`
	Balanced bool `json:"balanced"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string       `json:"accountID"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Amount    domain.Money `json:"amount" swaggertype:"string"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	CompanyID string                  `json:"companyID"`
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Revenue   []AccountAmountResponse `json:"revenue"`
	Expenses  []AccountAmountResponse `json:"expenses"`
	Summary   struct {
		TotalRevenue  domain.Money `json:"totalRevenue" swaggertype:"string"`
		TotalExpenses domain.Money `json:"totalExpenses" swaggertype:"string"`
		NetIncome     domain.Money `json:"netIncome" swaggertype:"string"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	CompanyID   string                  `json:"companyID"`
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets               domain.Money `json:"totalAssets" swaggertype:"string"`
		TotalLiabilities          domain.Money `json:"totalLiabilities" swaggertype:"string"`
		TotalEquity               domain.Money `json:"totalEquity" swaggertype:"string"`
		RetainedEarnings          domain.Money `json:"retainedEarnings" swaggertype:"string"`
		CurrentYearEarnings       domain.Money `json:"currentYearEarnings" swaggertype:"string"`
		TotalLiabilitiesAndEquity domain.Money `json:"totalLiabilitiesAndEquity" swaggertype:"string"`
	} `json:"summary"`
	Balanced bool `json:"balanced"`
}

// DashboardResponse represents the multi-company dashboard
type DashboardResponse struct {
	AsOf        string                  `json:"asOf"`
	PeriodStart string                  `json:"periodStart"`
	PeriodEnd   string                  `json:"periodEnd"`
	Companies   []domain.CompanySummary `json:"companies"`
	Totals      []domain.CurrencyTotals `json:"totals"`
}

func toAccountAmountResponses(lines []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(lines))
	for i, l := range lines {
		out[i] = AccountAmountResponse{
			AccountID: l.AccountID,
			Code:      l.Code,
			Name:      l.Name,
			Amount:    l.Amount,
		}
	}
	return out
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		CompanyID: tb.CompanyID,
		AsOf:      tb.AsOf.Format(domain.DateLayout),
		Rows:      make([]TrialBalanceRowResponse, len(tb.Rows)),
		Balanced:  tb.Balanced(),
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(is *domain.IncomeStatement) IncomeStatementResponse {
	response := IncomeStatementResponse{
		CompanyID: is.CompanyID,
		StartDate: is.StartDate.Format(domain.DateLayout),
		EndDate:   is.EndDate.Format(domain.DateLayout),
		Revenue:   toAccountAmountResponses(is.Revenue.Lines),
		Expenses:  toAccountAmountResponses(is.Expenses.Lines),
	}
	response.Summary.TotalRevenue = is.Revenue.Total
	response.Summary.TotalExpenses = is.Expenses.Total
	response.Summary.NetIncome = is.NetIncome
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(bs *domain.BalanceSheet) BalanceSheetResponse {
	response := BalanceSheetResponse{
		CompanyID:   bs.CompanyID,
		AsOf:        bs.AsOf.Format(domain.DateLayout),
		Assets:      toAccountAmountResponses(bs.Assets.Lines),
		Liabilities: toAccountAmountResponses(bs.Liabilities.Lines),
		Equity:      toAccountAmountResponses(bs.Equity.Lines),
		Balanced:    bs.Balanced(),
	}
	response.Summary.TotalAssets = bs.Assets.Total
	response.Summary.TotalLiabilities = bs.Liabilities.Total
	response.Summary.TotalEquity = bs.Equity.Total
	response.Summary.RetainedEarnings = bs.RetainedEarnings
	response.Summary.CurrentYearEarnings = bs.CurrentYearEarnings
	response.Summary.TotalLiabilitiesAndEquity = bs.TotalLiabilitiesAndEquity
	return response
}

// ToDashboardResponse converts a domain dashboard to a DTO response
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		AsOf:        d.AsOf.Format(domain.DateLayout),
		PeriodStart: d.PeriodStart.Format(domain.DateLayout),
		PeriodEnd:   d.PeriodEnd.Format(domain.DateLayout),
		Companies:   d.Companies,
		Totals:      d.Totals,
	}
}

// AsOfParams selects the reporting date; today when omitted.
type AsOfParams struct {
	AsOfDate string `form:"as_of_date" binding:"omitempty,calendar_date"`
}

// DateRangeParams selects an inclusive period.
type DateRangeParams struct {
	StartDate string `form:"start_date" binding:"required,calendar_date"`
	EndDate   string `form:"end_date" binding:"required,calendar_date"`
}

// DashboardParams selects the companies and dates of the dashboard.
// No company_id means every company; month is any date inside the reported month.
type DashboardParams struct {
	CompanyIDs []string `form:"company_id"`
	AsOfDate   string   `form:"as_of_date" binding:"omitempty,calendar_date"`
	Month      string   `form:"month" binding:"omitempty,calendar_date"`
}
