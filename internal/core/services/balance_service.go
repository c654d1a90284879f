package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// balanceCalculator derives natural balances from posted lines. It holds no
// state of its own and is shared by the balance and reporting services.
type balanceCalculator struct {
	journalRepo portsrepo.JournalReader
	accountRepo portsrepo.AccountReader
}

// accountTotals sums one account's columns over the range.
func (c balanceCalculator) accountTotals(ctx context.Context, company *domain.Company, accountID string, dates domain.DateRange) (domain.Totals, error) {
	totals := domain.Totals{Debit: company.Zero(), Credit: company.Zero()}
	for line, err := range c.journalRepo.LinesForAccount(ctx, company.CompanyID, accountID, dates) {
		if err != nil {
			return domain.Totals{}, err
		}
		totals = totals.AddLine(line.JournalLine)
	}
	return totals, nil
}

// natural returns the account's natural balance over the range.
func (c balanceCalculator) natural(ctx context.Context, company *domain.Company, acc *domain.Account, dates domain.DateRange) (domain.Money, error) {
	totals, err := c.accountTotals(ctx, company, acc.AccountID, dates)
	if err != nil {
		return domain.Money{}, err
	}
	return accounting.NaturalBalance(acc.AccountType, totals), nil
}

// balances returns every account of the company, ordered by code, with its
// natural balance over the range. All balances come from one totals snapshot.
// Accounts are listed after the totals are read, so every account with a
// line in the snapshot is in the list.
func (c balanceCalculator) balances(ctx context.Context, company *domain.Company, dates domain.DateRange) ([]domain.Account, map[string]domain.Money, error) {
	totals, err := c.journalRepo.AccountTotals(ctx, company.CompanyID, dates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to total ledger lines: %w", err)
	}
	accounts, err := c.accountRepo.ListAccounts(ctx, company.CompanyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, naturalBalances(company, accounts, totals), nil
}

// splitBalances is balances divided at split: before holds each account's
// natural balance over lines dated before split, since the rest of the range.
// Both halves come from one snapshot.
func (c balanceCalculator) splitBalances(ctx context.Context, company *domain.Company, dates domain.DateRange, split time.Time) (accounts []domain.Account, before, since map[string]domain.Money, err error) {
	totals, err := c.journalRepo.SplitAccountTotals(ctx, company.CompanyID, dates, split)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to total ledger lines: %w", err)
	}
	accounts, err = c.accountRepo.ListAccounts(ctx, company.CompanyID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, naturalBalances(company, accounts, totals.Before), naturalBalances(company, accounts, totals.Since), nil
}

func naturalBalances(company *domain.Company, accounts []domain.Account, totals map[string]domain.Totals) map[string]domain.Money {
	out := make(map[string]domain.Money, len(accounts))
	for _, acc := range accounts {
		t, ok := totals[acc.AccountID]
		if !ok {
			out[acc.AccountID] = company.Zero()
			continue
		}
		out[acc.AccountID] = accounting.NaturalBalance(acc.AccountType, t).Add(company.Zero())
	}
	return out
}

// aggregate sums the natural balances of every account of a type, active or not.
func aggregate(company *domain.Company, accounts []domain.Account, balances map[string]domain.Money, accountType domain.AccountType) domain.Money {
	sum := company.Zero()
	for _, acc := range accounts {
		if acc.AccountType == accountType {
			sum = sum.Add(balances[acc.AccountID])
		}
	}
	return sum
}

// balanceService implements the balance calculator contract.
type balanceService struct {
	BaseService
	calc        balanceCalculator
	companyRepo portsrepo.CompanyReader
	chart       portssvc.ChartReaderSvc
}

// BalanceServiceOption is a functional option for configuring the balance service
type BalanceServiceOption func(*balanceService)

// WithBalanceAuthorizer sets the role authorizer of the balance service.
func WithBalanceAuthorizer(authorizer portssvc.UserAuthorizerSvc) BalanceServiceOption {
	return func(s *balanceService) {
		s.Authorizer = authorizer
	}
}

// NewBalanceService creates a new balance service.
func NewBalanceService(journalRepo portsrepo.JournalReader, accountRepo portsrepo.AccountReader, companyRepo portsrepo.CompanyReader, chart portssvc.ChartReaderSvc, options ...BalanceServiceOption) portssvc.BalanceSvc {
	svc := &balanceService{
		calc:        balanceCalculator{journalRepo: journalRepo, accountRepo: accountRepo},
		companyRepo: companyRepo,
		chart:       chart,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// load authorizes the caller and resolves the company and account.
func (s *balanceService) load(ctx context.Context, companyID, accountRef, userID string) (*domain.Company, *domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("company %s: %w", companyID, err)
	}
	acc, err := s.chart.Resolve(ctx, companyID, accountRef)
	if err != nil {
		return nil, nil, err
	}
	return company, acc, nil
}

func (s *balanceService) Balance(ctx context.Context, companyID string, accountRef string, asOf time.Time, userID string) (domain.Money, error) {
	company, acc, err := s.load(ctx, companyID, accountRef, userID)
	if err != nil {
		return domain.Money{}, err
	}
	balance, err := s.calc.natural(ctx, company, acc, domain.Through(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance", slog.String("account_id", acc.AccountID))
		return domain.Money{}, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (s *balanceService) Activity(ctx context.Context, companyID string, accountRef string, start, end time.Time, userID string) (domain.Money, error) {
	if domain.NormalizeDate(start).After(domain.NormalizeDate(end)) {
		return domain.Money{}, apperrors.NewPostingError(apperrors.ErrInvalidDate, 0,
			"start %s is after end %s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}
	company, acc, err := s.load(ctx, companyID, accountRef, userID)
	if err != nil {
		return domain.Money{}, err
	}
	activity, err := s.calc.natural(ctx, company, acc, domain.Between(start, end))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute activity", slog.String("account_id", acc.AccountID))
		return domain.Money{}, fmt.Errorf("failed to compute activity: %w", err)
	}
	return activity, nil
}

func (s *balanceService) Aggregate(ctx context.Context, companyID string, accountType domain.AccountType, asOf time.Time, userID string) (domain.Money, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return domain.Money{}, err
	}
	if !accountType.IsValid() {
		return domain.Money{}, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("company %s: %w", companyID, err)
	}
	accounts, balances, err := s.calc.balances(ctx, company, domain.Through(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate balances", slog.String("company_id", companyID))
		return domain.Money{}, err
	}
	return aggregate(company, accounts, balances, accountType), nil
}

// SubtreeBalance walks the account tree breadth first. Children of a different
// type contribute their own natural balance, the same way a statement would show them.
func (s *balanceService) SubtreeBalance(ctx context.Context, companyID string, accountRef string, asOf time.Time, userID string) (domain.Money, error) {
	company, root, err := s.load(ctx, companyID, accountRef, userID)
	if err != nil {
		return domain.Money{}, err
	}
	accounts, balances, err := s.calc.balances(ctx, company, domain.Through(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute subtree balance", slog.String("account_id", root.AccountID))
		return domain.Money{}, err
	}

	children := make(map[string][]string, len(accounts))
	for _, acc := range accounts {
		if acc.HasParent() {
			children[acc.ParentAccountID] = append(children[acc.ParentAccountID], acc.AccountID)
		}
	}

	sum := company.Zero()
	visited := map[string]bool{}
	queue := []string{root.AccountID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		sum = sum.Add(balances[id])
		queue = append(queue, children[id]...)
	}
	return sum, nil
}

func (s *balanceService) AccountLedger(ctx context.Context, companyID string, accountRef string, start, end time.Time, userID string) (*domain.AccountLedger, error) {
	start, end = domain.NormalizeDate(start), domain.NormalizeDate(end)
	if start.After(end) {
		return nil, apperrors.NewPostingError(apperrors.ErrInvalidDate, 0,
			"start %s is after end %s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}
	company, acc, err := s.load(ctx, companyID, accountRef, userID)
	if err != nil {
		return nil, err
	}

	opening, err := s.calc.natural(ctx, company, acc, domain.Through(start.AddDate(0, 0, -1)))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", acc.AccountID))
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}

	ledger := &domain.AccountLedger{
		Account:        *acc,
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: opening,
		Lines:          []domain.LedgerLine{},
	}
	running := opening
	for line, err := range s.calc.journalRepo.LinesForAccount(ctx, companyID, acc.AccountID, domain.Between(start, end)) {
		if err != nil {
			s.LogError(ctx, err, "Failed to read account lines", slog.String("account_id", acc.AccountID))
			return nil, fmt.Errorf("failed to read account lines: %w", err)
		}
		running = running.Add(accounting.SignedLineAmount(acc.AccountType, line.JournalLine))
		ledger.Lines = append(ledger.Lines, domain.LedgerLine{PostedLine: line, RunningBalance: running})
	}
	ledger.ClosingBalance = running
	return ledger, nil
}
