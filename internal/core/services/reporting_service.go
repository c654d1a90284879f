package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// dashboardConcurrency caps how many companies are summarized at once.
const dashboardConcurrency = 8

type reportingService struct {
	BaseService
	calc        balanceCalculator
	companyRepo portsrepo.CompanyReader
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingAuthorizer sets the role authorizer of the reporting service.
func WithReportingAuthorizer(authorizer portssvc.UserAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.Authorizer = authorizer
	}
}

// NewReportingService creates a new reporting service.
func NewReportingService(journalRepo portsrepo.JournalReader, accountRepo portsrepo.AccountReader, companyRepo portsrepo.CompanyReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		calc:        balanceCalculator{journalRepo: journalRepo, accountRepo: accountRepo},
		companyRepo: companyRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) company(ctx context.Context, companyID, userID string) (*domain.Company, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("company %s: %w", companyID, err)
	}
	return company, nil
}

func invalidPeriod(start, end time.Time) error {
	return apperrors.NewPostingError(apperrors.ErrInvalidDate, 0,
		"start %s is after end %s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
}

// listed reports whether an account appears on a statement. Inactive accounts
// are shown only while they still hold a balance.
func listed(acc domain.Account, balance domain.Money) bool {
	return acc.IsActive || !balance.IsZero()
}

func section(company *domain.Company, accounts []domain.Account, balances map[string]domain.Money, accountType domain.AccountType) domain.StatementSection {
	sec := domain.StatementSection{Lines: []domain.AccountAmount{}}
	for _, acc := range accounts {
		if acc.AccountType != accountType || !listed(acc, balances[acc.AccountID]) {
			continue
		}
		sec.Lines = append(sec.Lines, domain.AccountAmount{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			Amount:      balances[acc.AccountID],
		})
	}
	sec.Total = aggregate(company, accounts, balances, accountType)
	return sec
}

func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error) {
	company, err := s.company(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	accounts, balances, err := s.calc.balances(ctx, company, domain.Through(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("company_id", companyID))
		return nil, err
	}

	tb := &domain.TrialBalance{
		CompanyID:   companyID,
		AsOf:        domain.NormalizeDate(asOf),
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  company.Zero(),
		TotalCredit: company.Zero(),
	}
	for _, acc := range accounts {
		balance := balances[acc.AccountID]
		if !listed(acc, balance) {
			continue
		}
		debit, credit := accounting.TrialBalanceColumns(acc.AccountType, balance)
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			IsActive:    acc.IsActive,
			Debit:       debit,
			Credit:      credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}

	if !tb.Balanced() {
		// only reachable if the ledger store holds an unbalanced entry
		s.LogError(ctx, apperrors.ErrInternal, "Trial balance columns disagree",
			slog.String("company_id", companyID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	return tb, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheet, error) {
	company, err := s.company(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	asOf = domain.NormalizeDate(asOf)
	sheet, err := s.balanceSheet(ctx, company, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build balance sheet", slog.String("company_id", companyID))
		return nil, err
	}
	return sheet, nil
}

func (s *reportingService) balanceSheet(ctx context.Context, company *domain.Company, asOf time.Time) (*domain.BalanceSheet, error) {
	fiscalStart := company.FiscalYearStartFor(asOf)
	accounts, prior, current, err := s.calc.splitBalances(ctx, company, domain.Through(asOf), fiscalStart)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]domain.Money, len(accounts))
	for _, acc := range accounts {
		balances[acc.AccountID] = prior[acc.AccountID].Add(current[acc.AccountID])
	}
	retained := netIncome(company, accounts, prior)
	currentYear := netIncome(company, accounts, current)

	sheet := &domain.BalanceSheet{
		CompanyID:           company.CompanyID,
		AsOf:                asOf,
		Assets:              section(company, accounts, balances, domain.Asset),
		Liabilities:         section(company, accounts, balances, domain.Liability),
		Equity:              section(company, accounts, balances, domain.Equity),
		RetainedEarnings:    retained,
		CurrentYearEarnings: currentYear,
	}
	sheet.Equity.Total = sheet.Equity.Total.Add(retained).Add(currentYear)
	sheet.TotalLiabilitiesAndEquity = sheet.Liabilities.Total.Add(sheet.Equity.Total)
	return sheet, nil
}

// netIncome is revenue minus expenses.
func netIncome(company *domain.Company, accounts []domain.Account, balances map[string]domain.Money) domain.Money {
	return aggregate(company, accounts, balances, domain.Revenue).Sub(aggregate(company, accounts, balances, domain.Expense))
}

func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, start, end time.Time, userID string) (*domain.IncomeStatement, error) {
	start, end = domain.NormalizeDate(start), domain.NormalizeDate(end)
	if start.After(end) {
		return nil, invalidPeriod(start, end)
	}
	company, err := s.company(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	statement, err := s.incomeStatement(ctx, company, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to build income statement", slog.String("company_id", companyID))
		return nil, err
	}
	return statement, nil
}

func (s *reportingService) incomeStatement(ctx context.Context, company *domain.Company, start, end time.Time) (*domain.IncomeStatement, error) {
	accounts, activity, err := s.calc.balances(ctx, company, domain.Between(start, end))
	if err != nil {
		return nil, err
	}
	statement := &domain.IncomeStatement{
		CompanyID: company.CompanyID,
		StartDate: start,
		EndDate:   end,
		Revenue:   section(company, accounts, activity, domain.Revenue),
		Expenses:  section(company, accounts, activity, domain.Expense),
	}
	statement.NetIncome = statement.Revenue.Total.Sub(statement.Expenses.Total)
	return statement, nil
}

// monthBounds returns the first and last day of the calendar month containing day.
func monthBounds(day time.Time) (time.Time, time.Time) {
	day = domain.NormalizeDate(day)
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func (s *reportingService) Dashboard(ctx context.Context, companyIDs []string, asOf time.Time, month time.Time, userID string) (*domain.Dashboard, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}

	var companies []domain.Company
	if len(companyIDs) == 0 {
		all, err := s.companyRepo.ListCompanies(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to list companies for dashboard")
			return nil, fmt.Errorf("failed to list companies: %w", err)
		}
		companies = all
	} else {
		for _, id := range companyIDs {
			company, err := s.companyRepo.FindCompanyByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("company %s: %w", id, err)
			}
			companies = append(companies, *company)
		}
	}

	asOf = domain.NormalizeDate(asOf)
	periodStart, periodEnd := monthBounds(month)

	summaries := make([]domain.CompanySummary, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i := range companies {
		g.Go(func() error {
			summary, err := s.summarize(gctx, &companies[i], asOf, periodStart, periodEnd)
			if err != nil {
				return fmt.Errorf("company %s: %w", companies[i].Code, err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build dashboard")
		return nil, err
	}

	s.LogDebug(ctx, "Dashboard computed",
		slog.Int("company_count", len(summaries)),
		slog.String("as_of", asOf.Format(domain.DateLayout)))

	return &domain.Dashboard{
		AsOf:        asOf,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Companies:   summaries,
		Totals:      totalsByCurrency(summaries),
	}, nil
}

func (s *reportingService) summarize(ctx context.Context, company *domain.Company, asOf, periodStart, periodEnd time.Time) (domain.CompanySummary, error) {
	sheet, err := s.balanceSheet(ctx, company, asOf)
	if err != nil {
		return domain.CompanySummary{}, err
	}
	statement, err := s.incomeStatement(ctx, company, periodStart, periodEnd)
	if err != nil {
		return domain.CompanySummary{}, err
	}
	return domain.CompanySummary{
		CompanyID:        company.CompanyID,
		Code:             company.Code,
		Name:             company.Name,
		Currency:         company.Currency,
		TotalAssets:      sheet.Assets.Total,
		TotalLiabilities: sheet.Liabilities.Total,
		TotalEquity:      sheet.Equity.Total,
		Revenue:          statement.Revenue.Total,
		Expenses:         statement.Expenses.Total,
		NetIncome:        statement.NetIncome,
	}, nil
}

// totalsByCurrency sums summaries per currency, ordered by currency code.
func totalsByCurrency(summaries []domain.CompanySummary) []domain.CurrencyTotals {
	byCurrency := make(map[string]*domain.CurrencyTotals)
	for _, sum := range summaries {
		t, ok := byCurrency[sum.Currency]
		if !ok {
			zero := domain.ZeroMoney(sum.TotalAssets.Scale())
			t = &domain.CurrencyTotals{Currency: sum.Currency, TotalAssets: zero, TotalLiabilities: zero, NetIncome: zero}
			byCurrency[sum.Currency] = t
		}
		t.TotalAssets = t.TotalAssets.Add(sum.TotalAssets)
		t.TotalLiabilities = t.TotalLiabilities.Add(sum.TotalLiabilities)
		t.NetIncome = t.NetIncome.Add(sum.NetIncome)
	}
	out := make([]domain.CurrencyTotals, 0, len(byCurrency))
	for _, t := range byCurrency {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b domain.CurrencyTotals) int {
		return strings.Compare(a.Currency, b.Currency)
	})
	return out
}
