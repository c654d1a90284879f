package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/memory"
)

const testUserID = "user-1"

// ledgerFixture is an unauthenticated engine over the in-memory store with one
// company whose starter chart is seeded.
type ledgerFixture struct {
	repos   portsrepo.RepositoryProvider
	svc     *portssvc.ServiceContainer
	company *domain.Company
}

func newLedgerFixture(t *testing.T, currency string) *ledgerFixture {
	t.Helper()
	repos := memory.NewRepositoryProvider()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryDuration: time.Hour, JWTIssuer: "test"}
	svc := services.NewContainer(&repos, cfg, services.WithoutAuthorization())

	company, err := svc.Company.CreateCompany(context.Background(), dto.CreateCompanyRequest{
		Code:             "ACME",
		Name:             "Acme Ltd",
		Currency:         currency,
		FiscalYearStart:  "2024-01-01",
		SeedDefaultChart: true,
	}, testUserID)
	require.NoError(t, err)

	return &ledgerFixture{repos: repos, svc: svc, company: company}
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func usd(s string) domain.Money { return domain.MustParseMoney(s, 2) }

func dr(account, amount string) dto.CreateJournalLineRequest {
	return dto.CreateJournalLineRequest{AccountID: account, Debit: usd(amount)}
}

func cr(account, amount string) dto.CreateJournalLineRequest {
	return dto.CreateJournalLineRequest{AccountID: account, Credit: usd(amount)}
}

func (f *ledgerFixture) request(date, description string, lines ...dto.CreateJournalLineRequest) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		CompanyID:   f.company.CompanyID,
		Date:        date,
		Description: description,
		Lines:       lines,
	}
}

func (f *ledgerFixture) post(t *testing.T, date, description string, lines ...dto.CreateJournalLineRequest) *domain.JournalEntry {
	t.Helper()
	entry, err := f.svc.Journal.PostEntry(context.Background(), f.request(date, description, lines...), testUserID)
	require.NoError(t, err)
	return entry
}

func (f *ledgerFixture) account(t *testing.T, code string) *domain.Account {
	t.Helper()
	acc, err := f.svc.Account.Resolve(context.Background(), f.company.CompanyID, code)
	require.NoError(t, err)
	return acc
}

func (f *ledgerFixture) balance(t *testing.T, code string, asOf string) string {
	t.Helper()
	b, err := f.svc.Balance.Balance(context.Background(), f.company.CompanyID, code, day(asOf), testUserID)
	require.NoError(t, err)
	return b.String()
}

// seedScenario posts the reference month: capital, equipment on credit, a sale,
// rent and a partial loan repayment.
func (f *ledgerFixture) seedScenario(t *testing.T) {
	t.Helper()
	f.post(t, "2024-01-01", "Owner investment", dr("1010", "10000.00"), cr("3010", "10000.00"))
	f.post(t, "2024-01-05", "Equipment bought with a loan", dr("1500", "4000.00"), cr("2100", "4000.00"))
	f.post(t, "2024-01-10", "Consulting invoice", dr("1200", "2500.00"), cr("4100", "2500.00"))
	f.post(t, "2024-01-15", "January rent", dr("5300", "1200.00"), cr("1010", "1200.00"))
	f.post(t, "2024-01-20", "Loan repayment", dr("2100", "500.00"), cr("1010", "500.00"))
}
