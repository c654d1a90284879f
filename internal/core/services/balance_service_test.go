package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestBalance_NaturalSign(t *testing.T) {
	f := newLedgerFixture(t, "USD")
	f.seedScenario(t)

	assert.Equal(t, "8300.00", f.balance(t, "1010", "2024-01-31"))
	assert.Equal(t, "3500.00", f.balance(t, "2100", "2024-01-31"))
	assert.Equal(t, "2500.00", f.balance(t, "4100", "2024-01-31"))
	assert.Equal(t, "1200.00", f.balance(t, "5300", "2024-01-31"))

	// asOf is inclusive
	assert.Equal(t, "10000.00", f.balance(t, "1010", "2024-01-14"))
	assert.Equal(t, "8800.00", f.balance(t, "1010", "2024-01-15"))
	assert.Equal(t, "0.00", f.balance(t, "1010", "2023-12-31"))
}

func TestBalance_UnknownAccount(t *testing.T) {
	f := newLedgerFixture(t, "USD")
	_, err := f.svc.Balance.Balance(context.Background(), f.company.CompanyID, "9999", day("2024-01-31"), testUserID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestActivity(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "USD")
	f.seedScenario(t)

	activity, err := f.svc.Balance.Activity(ctx, f.company.CompanyID, "1010", day("2024-01-15"), day("2024-01-20"), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "-1700.00", activity.String())

	_, err = f.svc.Balance.Activity(ctx, f.company.CompanyID, "1010", day("2024-01-20"), day("2024-01-15"), testUserID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestAggregate_IncludesInactiveWithoutRollUp(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "USD")
	f.seedScenario(t)

	equipment := f.account(t, "1500")
	require.NoError(t, f.svc.Account.DeactivateAccount(ctx, equipment.AccountID, testUserID))

	total, err := f.svc.Balance.Aggregate(ctx, f.company.CompanyID, domain.Asset, day("2024-01-31"), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "14800.00", total.String())

	_, err = f.svc.Balance.Aggregate(ctx, f.company.CompanyID, domain.AccountType("CASH"), day("2024-01-31"), testUserID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubtreeBalance(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "USD")
	f.seedScenario(t)

	parent, err := f.svc.Balance.Balance(ctx, f.company.CompanyID, "1000", day("2024-01-31"), testUserID)
	require.NoError(t, err)
	assert.True(t, parent.IsZero(), "a group account has no implicit roll-up")

	subtree, err := f.svc.Balance.SubtreeBalance(ctx, f.company.CompanyID, "1000", day("2024-01-31"), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "14800.00", subtree.String())

	leaf, err := f.svc.Balance.SubtreeBalance(ctx, f.company.CompanyID, "1010", day("2024-01-31"), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "8300.00", leaf.String())
}

func TestAccountLedger(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "USD")
	f.seedScenario(t)

	ledger, err := f.svc.Balance.AccountLedger(ctx, f.company.CompanyID, "1010", day("2024-01-10"), day("2024-01-31"), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", ledger.OpeningBalance.String())
	require.Len(t, ledger.Lines, 2)
	assert.Equal(t, "January rent", ledger.Lines[0].EntryDescription)
	assert.Equal(t, "8800.00", ledger.Lines[0].RunningBalance.String())
	assert.Equal(t, "8300.00", ledger.Lines[1].RunningBalance.String())
	assert.Equal(t, "8300.00", ledger.ClosingBalance.String())

	closing := f.balance(t, "1010", "2024-01-31")
	assert.Equal(t, closing, ledger.ClosingBalance.String())

	_, err = f.svc.Balance.AccountLedger(ctx, f.company.CompanyID, "1010", day("2024-02-01"), day("2024-01-01"), testUserID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}
