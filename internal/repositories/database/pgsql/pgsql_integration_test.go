//go:build integration

package pgsql_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

const (
	migrationsURL = "file://../../../../migrations"
	testUserID    = "it-user"
)

type PostgresLedgerTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repos     portsrepo.RepositoryProvider
	svc       *portssvc.ServiceContainer
	company   *domain.Company
}

func (suite *PostgresLedgerTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	container, err := tcpostgres.Run(suite.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	suite.Require().NoError(err, "failed to start PostgreSQL container")
	suite.container = container

	dsn, err := container.ConnectionString(suite.ctx, "sslmode=disable")
	suite.Require().NoError(err)

	applied, err := database.RunMigrations(dsn, migrationsURL)
	suite.Require().NoError(err)
	suite.True(applied)

	suite.pool, err = database.NewPgxPool(suite.ctx, dsn, true)
	suite.Require().NoError(err)
}

func (suite *PostgresLedgerTestSuite) TearDownSuite() {
	database.ClosePgxPool(suite.pool)
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(suite.ctx))
	}
}

func (suite *PostgresLedgerTestSuite) SetupTest() {
	// TRUNCATE does not fire the row-level immutability triggers
	_, err := suite.pool.Exec(suite.ctx, `TRUNCATE journal_lines, journal_entries, accounts, companies, users;`)
	suite.Require().NoError(err)

	suite.repos = pgsql.NewRepositoryProvider(suite.pool)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryDuration: time.Hour, JWTIssuer: "test"}
	suite.svc = services.NewContainer(&suite.repos, cfg, services.WithoutAuthorization())

	suite.company, err = suite.svc.Company.CreateCompany(suite.ctx, dto.CreateCompanyRequest{
		Code: "ACME", Name: "Acme Ltd", Currency: "USD", FiscalYearStart: "2024-01-01", SeedDefaultChart: true,
	}, testUserID)
	suite.Require().NoError(err)
}

func usd(s string) domain.Money { return domain.MustParseMoney(s, 2) }

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (suite *PostgresLedgerTestSuite) post(date, description string, lines ...dto.CreateJournalLineRequest) *domain.JournalEntry {
	entry, err := suite.svc.Journal.PostEntry(suite.ctx, dto.CreateJournalRequest{
		CompanyID: suite.company.CompanyID, Date: date, Description: description, Lines: lines,
	}, testUserID)
	suite.Require().NoError(err)
	return entry
}

func dr(account, amount string) dto.CreateJournalLineRequest {
	return dto.CreateJournalLineRequest{AccountID: account, Debit: usd(amount)}
}

func cr(account, amount string) dto.CreateJournalLineRequest {
	return dto.CreateJournalLineRequest{AccountID: account, Credit: usd(amount)}
}

func (suite *PostgresLedgerTestSuite) TestChartRoundTrip() {
	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, suite.company.CompanyID, testUserID)
	suite.Require().NoError(err)
	suite.Len(accounts, 16)
	suite.Equal("1000", accounts[0].Code)

	cash, err := suite.repos.AccountRepo.FindAccountByCode(suite.ctx, suite.company.CompanyID, "1010")
	suite.Require().NoError(err)
	suite.True(cash.HasParent())
	suite.Equal(domain.Asset, cash.AccountType)

	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		CompanyID: suite.company.CompanyID, Code: "1010", Name: "Dup", AccountType: domain.Asset,
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	company, err := suite.repos.CompanyRepo.FindCompanyByCode(suite.ctx, "acme")
	suite.Require().NoError(err)
	suite.Equal(suite.company.CompanyID, company.CompanyID)
	suite.Equal(day("2024-01-01"), company.FiscalYearStart)
}

func (suite *PostgresLedgerTestSuite) TestPostAndReadBack() {
	first := suite.post("2024-01-02", "Owner capital", dr("1010", "10000.00"), cr("3010", "10000.00"))
	second := suite.post("2024-01-02", "Cash sale", dr("1010", "250.50"), cr("4100", "250.50"))
	suite.Greater(second.Seq, first.Seq)

	got, err := suite.repos.JournalRepo.FindEntryByID(suite.ctx, suite.company.CompanyID, second.EntryID)
	suite.Require().NoError(err)
	suite.Require().Len(got.Lines, 2)
	suite.Equal(1, got.Lines[0].LineNo)
	suite.Equal("250.50", got.Lines[0].Debit.String())
	suite.Equal(int32(2), got.Lines[0].Debit.Scale())
	suite.True(got.Lines[0].Credit.IsZero())
	suite.Equal(day("2024-01-02"), got.Date)

	balance, err := suite.svc.Balance.Balance(suite.ctx, suite.company.CompanyID, "1010", day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.Equal("10250.50", balance.String())

	tb, err := suite.svc.Reporting.TrialBalance(suite.ctx, suite.company.CompanyID, day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.True(tb.Balanced())
}

func (suite *PostgresLedgerTestSuite) TestRejectedEntryLeavesNoRows() {
	_, err := suite.svc.Journal.PostEntry(suite.ctx, dto.CreateJournalRequest{
		CompanyID: suite.company.CompanyID, Date: "2024-01-02", Description: "broken",
		Lines: []dto.CreateJournalLineRequest{dr("1010", "10.00"), cr("3010", "9.99")},
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)

	var n int
	suite.Require().NoError(suite.pool.QueryRow(suite.ctx, `SELECT count(*) FROM journal_entries;`).Scan(&n))
	suite.Zero(n)
}

func (suite *PostgresLedgerTestSuite) TestReversalIsUniqueInStore() {
	entry := suite.post("2024-01-05", "Rent", dr("5300", "1200.00"), cr("1010", "1200.00"))

	reversal, err := suite.svc.Journal.ReverseEntry(suite.ctx, suite.company.CompanyID, entry.EntryID, dto.ReverseJournalRequest{}, testUserID)
	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, reversal.ReversesEntryID)

	found, err := suite.repos.JournalRepo.FindReversal(suite.ctx, suite.company.CompanyID, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(reversal.EntryID, found.EntryID)

	// the unique constraint backs the service check
	dup := *reversal
	dup.EntryID = "another-reversal"
	for i := range dup.Lines {
		dup.Lines[i].LineID = dup.Lines[i].LineID + "-dup"
	}
	_, err = suite.repos.JournalRepo.AppendEntry(suite.ctx, dup)
	suite.ErrorIs(err, apperrors.ErrConflict)

	balance, err := suite.svc.Balance.Balance(suite.ctx, suite.company.CompanyID, "5300", day("2024-01-31"), testUserID)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *PostgresLedgerTestSuite) TestPostedRowsAreImmutable() {
	entry := suite.post("2024-01-05", "Rent", dr("5300", "1200.00"), cr("1010", "1200.00"))

	_, err := suite.pool.Exec(suite.ctx, `UPDATE journal_lines SET debit = 1 WHERE entry_id = $1;`, entry.EntryID)
	suite.Error(err)
	_, err = suite.pool.Exec(suite.ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entry.EntryID)
	suite.Error(err)
}

func (suite *PostgresLedgerTestSuite) TestListEntriesPagination() {
	for i := 1; i <= 5; i++ {
		suite.post(day("2024-02-01").AddDate(0, 0, i).Format(domain.DateLayout), "sale",
			dr("1200", "100.00"), cr("4100", "100.00"))
	}
	suite.post("2024-02-03", "unrelated", dr("5300", "1.00"), cr("1010", "1.00"))

	params := dto.ListJournalsParams{CompanyID: suite.company.CompanyID, AccountID: "1200", Limit: 2}
	var seen []string
	for {
		page, err := suite.svc.Journal.ListEntries(suite.ctx, params, testUserID)
		suite.Require().NoError(err)
		for _, e := range page.Entries {
			seen = append(seen, e.Date)
		}
		if page.NextToken == nil {
			break
		}
		params.NextToken = *page.NextToken
	}
	suite.Equal([]string{"2024-02-06", "2024-02-05", "2024-02-04", "2024-02-03", "2024-02-02"}, seen)
}

func (suite *PostgresLedgerTestSuite) TestAccountTotalsRespectDates() {
	suite.post("2024-01-10", "capital", dr("1010", "500.00"), cr("3010", "500.00"))
	suite.post("2024-02-10", "capital", dr("1010", "300.00"), cr("3010", "300.00"))

	cash, err := suite.repos.AccountRepo.FindAccountByCode(suite.ctx, suite.company.CompanyID, "1010")
	suite.Require().NoError(err)

	totals, err := suite.repos.JournalRepo.AccountTotals(suite.ctx, suite.company.CompanyID, domain.Through(day("2024-01-31")))
	suite.Require().NoError(err)
	suite.Equal("500.00", totals[cash.AccountID].Debit.String())

	var lines int
	for line, err := range suite.repos.JournalRepo.LinesForAccount(suite.ctx, suite.company.CompanyID, cash.AccountID, domain.Between(day("2024-02-01"), day("2024-02-28"))) {
		suite.Require().NoError(err)
		suite.Equal("300.00", line.Debit.String())
		lines++
	}
	suite.Equal(1, lines)
}

func (suite *PostgresLedgerTestSuite) TestSplitAccountTotals() {
	suite.post("2023-12-20", "prior sale", dr("1010", "40.00"), cr("4100", "40.00"))
	suite.post("2024-01-10", "sale", dr("1010", "60.00"), cr("4100", "60.00"))
	suite.post("2024-02-10", "late sale", dr("1010", "99.00"), cr("4100", "99.00"))

	revenue, err := suite.repos.AccountRepo.FindAccountByCode(suite.ctx, suite.company.CompanyID, "4100")
	suite.Require().NoError(err)

	split, err := suite.repos.JournalRepo.SplitAccountTotals(suite.ctx, suite.company.CompanyID, domain.Through(day("2024-01-31")), day("2024-01-01"))
	suite.Require().NoError(err)
	suite.Equal("40.00", split.Before[revenue.AccountID].Credit.String())
	suite.Equal("60.00", split.Since[revenue.AccountID].Credit.String())
	suite.True(split.Since[revenue.AccountID].Debit.IsZero())
}

func TestPostgresLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresLedgerTestSuite))
}
