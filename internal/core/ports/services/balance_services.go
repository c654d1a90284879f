package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BalanceSvc derives account balances from posted lines. All amounts are in
// natural sign: positive means the account holds a balance on its normal side.
type BalanceSvc interface {
	// Balance is the account balance through asOf inclusive.
	Balance(ctx context.Context, companyID string, accountRef string, asOf time.Time, userID string) (domain.Money, error)

	// Activity is the net movement between start and end inclusive.
	Activity(ctx context.Context, companyID string, accountRef string, start, end time.Time, userID string) (domain.Money, error)

	// Aggregate sums the balances of every account of a type, active or not, without roll-up.
	Aggregate(ctx context.Context, companyID string, accountType domain.AccountType, asOf time.Time, userID string) (domain.Money, error)

	// SubtreeBalance sums the balances of an account and all of its descendants.
	SubtreeBalance(ctx context.Context, companyID string, accountRef string, asOf time.Time, userID string) (domain.Money, error)

	// AccountLedger lists an account's lines with a running balance.
	AccountLedger(ctx context.Context, companyID string, accountRef string, start, end time.Time, userID string) (*domain.AccountLedger, error)
}
