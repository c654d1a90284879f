package services_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	f   *ledgerFixture
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.f = newLedgerFixture(suite.T(), "USD")
}

func (suite *ReportingServiceTestSuite) TestEmptyLedger() {
	tb, err := suite.f.svc.Reporting.TrialBalance(suite.ctx, suite.f.company.CompanyID, day("2024-12-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("0.00", tb.TotalDebit.String())
	suite.Equal("0.00", tb.TotalCredit.String())
	suite.True(tb.Balanced())

	bs, err := suite.f.svc.Reporting.BalanceSheet(suite.ctx, suite.f.company.CompanyID, day("2024-12-31"), testUserID)
	suite.Require().NoError(err)
	suite.True(bs.Assets.Total.IsZero())
	suite.True(bs.TotalLiabilitiesAndEquity.IsZero())
	suite.True(bs.Balanced())

	is, err := suite.f.svc.Reporting.IncomeStatement(suite.ctx, suite.f.company.CompanyID, day("2024-01-01"), day("2024-12-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("0.00", is.NetIncome.String())
}

func (suite *ReportingServiceTestSuite) TestTrialBalance() {
	suite.f.seedScenario(suite.T())

	tb, err := suite.f.svc.Reporting.TrialBalance(suite.ctx, suite.f.company.CompanyID, day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("16000.00", tb.TotalDebit.String())
	suite.Equal("16000.00", tb.TotalCredit.String())
	suite.True(tb.Balanced())

	rows := map[string]domain.TrialBalanceRow{}
	for _, r := range tb.Rows {
		rows[r.Code] = r
	}
	suite.Equal("8300.00", rows["1010"].Debit.String())
	suite.Equal("3500.00", rows["2100"].Credit.String())
	suite.Equal("10000.00", rows["3010"].Credit.String())
	suite.Equal("1200.00", rows["5300"].Debit.String())
	suite.Contains(rows, "1000", "active accounts are listed even with a zero balance")
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_AbnormalBalance() {
	suite.f.post(suite.T(), "2024-01-02", "Overdraft rent", dr("5300", "50.00"), cr("1010", "50.00"))

	tb, err := suite.f.svc.Reporting.TrialBalance(suite.ctx, suite.f.company.CompanyID, day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	for _, r := range tb.Rows {
		if r.Code == "1010" {
			suite.True(r.Debit.IsZero())
			suite.Equal("50.00", r.Credit.String())
		}
	}
	suite.True(tb.Balanced())
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_InactiveAccounts() {
	suite.f.post(suite.T(), "2024-01-02", "Rent", dr("5300", "50.00"), cr("1010", "50.00"))
	rent := suite.f.account(suite.T(), "5300")
	wages := suite.f.account(suite.T(), "5200")
	suite.Require().NoError(suite.f.svc.Account.DeactivateAccount(suite.ctx, rent.AccountID, testUserID))
	suite.Require().NoError(suite.f.svc.Account.DeactivateAccount(suite.ctx, wages.AccountID, testUserID))

	tb, err := suite.f.svc.Reporting.TrialBalance(suite.ctx, suite.f.company.CompanyID, day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	codes := map[string]bool{}
	for _, r := range tb.Rows {
		codes[r.Code] = true
	}
	suite.True(codes["5300"], "inactive account with a balance keeps its row")
	suite.False(codes["5200"], "inactive account without a balance is omitted")
	suite.True(tb.Balanced())
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet() {
	suite.f.post(suite.T(), "2023-12-15", "Prior year sale", dr("1010", "100.00"), cr("4100", "100.00"))
	suite.f.seedScenario(suite.T())

	bs, err := suite.f.svc.Reporting.BalanceSheet(suite.ctx, suite.f.company.CompanyID, day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("14900.00", bs.Assets.Total.String())
	suite.Equal("3500.00", bs.Liabilities.Total.String())
	suite.Equal("100.00", bs.RetainedEarnings.String())
	suite.Equal("1300.00", bs.CurrentYearEarnings.String())
	suite.Equal("11400.00", bs.Equity.Total.String())
	suite.Equal("14900.00", bs.TotalLiabilitiesAndEquity.String())
	suite.True(bs.Balanced())
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_FiscalYear() {
	company, err := suite.f.svc.Company.CreateCompany(suite.ctx, dto.CreateCompanyRequest{
		Code: "JULY", Name: "July Co", Currency: "USD", FiscalYearStart: "2020-07-01", SeedDefaultChart: true,
	}, testUserID)
	suite.Require().NoError(err)

	post := func(date string, amount string) {
		_, err := suite.f.svc.Journal.PostEntry(suite.ctx, dto.CreateJournalRequest{
			CompanyID: company.CompanyID, Date: date, Description: "sale",
			Lines: []dto.CreateJournalLineRequest{dr("1010", amount), cr("4100", amount)},
		}, testUserID)
		suite.Require().NoError(err)
	}
	post("2023-06-30", "40.00")
	post("2023-07-01", "60.00")
	post("2024-01-15", "5.00")

	bs, err := suite.f.svc.Reporting.BalanceSheet(suite.ctx, company.CompanyID, day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("40.00", bs.RetainedEarnings.String())
	suite.Equal("65.00", bs.CurrentYearEarnings.String())
	suite.True(bs.Balanced())
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement() {
	suite.f.seedScenario(suite.T())
	suite.f.post(suite.T(), "2024-02-03", "February sale", dr("1010", "700.00"), cr("4100", "700.00"))

	is, err := suite.f.svc.Reporting.IncomeStatement(suite.ctx, suite.f.company.CompanyID, day("2024-01-01"), day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("2500.00", is.Revenue.Total.String())
	suite.Equal("1200.00", is.Expenses.Total.String())
	suite.Equal("1300.00", is.NetIncome.String())

	_, err = suite.f.svc.Reporting.IncomeStatement(suite.ctx, suite.f.company.CompanyID, day("2024-02-01"), day("2024-01-01"), testUserID)
	suite.ErrorIs(err, apperrors.ErrInvalidDate)
}

func (suite *ReportingServiceTestSuite) TestDashboard() {
	suite.f.seedScenario(suite.T())

	euro, err := suite.f.svc.Company.CreateCompany(suite.ctx, dto.CreateCompanyRequest{
		Code: "EURO", Name: "Euro GmbH", Currency: "EUR", SeedDefaultChart: true,
	}, testUserID)
	suite.Require().NoError(err)
	_, err = suite.f.svc.Journal.PostEntry(suite.ctx, dto.CreateJournalRequest{
		CompanyID: euro.CompanyID, Date: "2024-01-03", Description: "sale",
		Lines: []dto.CreateJournalLineRequest{dr("1010", "80.00"), cr("4100", "80.00")},
	}, testUserID)
	suite.Require().NoError(err)

	dash, err := suite.f.svc.Reporting.Dashboard(suite.ctx, nil, day("2024-01-31"), day("2024-01-17"), testUserID)
	suite.Require().NoError(err)
	suite.Equal(day("2024-01-01"), dash.PeriodStart)
	suite.Equal(day("2024-01-31"), dash.PeriodEnd)
	suite.Require().Len(dash.Companies, 2)
	suite.Require().Len(dash.Totals, 2)

	suite.Equal("EUR", dash.Totals[0].Currency)
	suite.Equal("80.00", dash.Totals[0].TotalAssets.String())
	suite.Equal("80.00", dash.Totals[0].NetIncome.String())
	suite.Equal("USD", dash.Totals[1].Currency)
	suite.Equal("14800.00", dash.Totals[1].TotalAssets.String())
	suite.Equal("3500.00", dash.Totals[1].TotalLiabilities.String())
	suite.Equal("1300.00", dash.Totals[1].NetIncome.String())

	only, err := suite.f.svc.Reporting.Dashboard(suite.ctx, []string{euro.CompanyID}, day("2024-01-31"), day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.Len(only.Companies, 1)

	_, err = suite.f.svc.Reporting.Dashboard(suite.ctx, []string{"missing"}, day("2024-01-31"), day("2024-01-31"), testUserID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

// TestLedgerProperties posts random balanced entries and checks the identities
// that must hold for any ledger.
func TestLedgerProperties(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "USD")
	codes := []string{"1010", "1200", "1500", "2010", "2100", "3010", "4100", "4200", "5100", "5200", "5300"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 60; i++ {
		date := fmt.Sprintf("2024-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1)
		n := rng.Intn(3) + 2
		lines := make([]dto.CreateJournalLineRequest, 0, n)
		total := domain.ZeroMoney(2)
		for j := 0; j < n-1; j++ {
			amount := domain.NewMoney(int64(rng.Intn(100000)+1), 2)
			total = total.Add(amount)
			lines = append(lines, dto.CreateJournalLineRequest{AccountID: codes[rng.Intn(len(codes))], Debit: amount})
		}
		lines = append(lines, dto.CreateJournalLineRequest{AccountID: codes[rng.Intn(len(codes))], Credit: total})
		entry := f.post(t, date, fmt.Sprintf("random %d", i), lines...)

		totals := entry.Totals()
		require.True(t, totals.Debit.Equal(totals.Credit), "every posted entry balances")
	}

	asOf := day("2024-12-31")
	tb, err := f.svc.Reporting.TrialBalance(ctx, f.company.CompanyID, asOf, testUserID)
	require.NoError(t, err)
	assert.True(t, tb.Balanced(), "trial balance columns agree")

	bs, err := f.svc.Reporting.BalanceSheet(ctx, f.company.CompanyID, asOf, testUserID)
	require.NoError(t, err)
	assert.True(t, bs.Balanced(), "assets equal liabilities plus equity")

	for _, code := range codes {
		start, end := day("2024-04-01"), day("2024-09-30")
		closing, err := f.svc.Balance.Balance(ctx, f.company.CompanyID, code, end, testUserID)
		require.NoError(t, err)
		opening, err := f.svc.Balance.Balance(ctx, f.company.CompanyID, code, start.AddDate(0, 0, -1), testUserID)
		require.NoError(t, err)
		activity, err := f.svc.Balance.Activity(ctx, f.company.CompanyID, code, start, end, testUserID)
		require.NoError(t, err)
		assert.True(t, closing.Equal(opening.Add(activity)), "balance(end) = balance(start-1) + activity for %s", code)
	}

	is, err := f.svc.Reporting.IncomeStatement(ctx, f.company.CompanyID, day("2024-01-01"), asOf, testUserID)
	require.NoError(t, err)
	assert.True(t, is.NetIncome.Equal(bs.CurrentYearEarnings), "year-to-date net income is the current-year earnings line")
}

// TestBalanceSheetBalancesWhilePosting builds balance sheets while entries on
// both sides of the fiscal-year start keep landing.
func TestBalanceSheetBalancesWhilePosting(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "USD")
	f.seedScenario(t)

	stop := make(chan struct{})
	var posted errgroup.Group
	posted.Go(func() error {
		dates := []string{"2023-12-20", "2024-01-15"}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return nil
			default:
			}
			req := f.request(dates[i%len(dates)], fmt.Sprintf("cash sale %d", i), dr("1010", "1.00"), cr("4100", "1.00"))
			if _, err := f.svc.Journal.PostEntry(ctx, req, testUserID); err != nil {
				return err
			}
		}
	})

	for i := 0; i < 300; i++ {
		bs, err := f.svc.Reporting.BalanceSheet(ctx, f.company.CompanyID, day("2024-01-31"), testUserID)
		if !assert.NoError(t, err) {
			break
		}
		if !assert.True(t, bs.Balanced(), "assets=%s liabilities+equity=%s", bs.Assets.Total, bs.TotalLiabilitiesAndEquity) {
			break
		}
	}
	close(stop)
	require.NoError(t, posted.Wait())

	bs, err := f.svc.Reporting.BalanceSheet(ctx, f.company.CompanyID, day("2024-01-31"), testUserID)
	require.NoError(t, err)
	assert.True(t, bs.Balanced())
	assert.False(t, bs.RetainedEarnings.IsNegative(), "prior-year sales are retained")
}
