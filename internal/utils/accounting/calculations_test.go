package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func money(s string) domain.Money { return domain.MustParseMoney(s, 2) }

func TestNaturalBalance(t *testing.T) {
	totals := domain.Totals{Debit: money("100.00"), Credit: money("30.00")}

	tests := []struct {
		accountType domain.AccountType
		want        string
	}{
		{domain.Asset, "70.00"},
		{domain.Expense, "70.00"},
		{domain.Liability, "-70.00"},
		{domain.Equity, "-70.00"},
		{domain.Revenue, "-70.00"},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.NaturalBalance(tt.accountType, totals).String())
		})
	}
}

func TestTrialBalanceColumns(t *testing.T) {
	debit, credit := accounting.TrialBalanceColumns(domain.Asset, money("50.00"))
	assert.Equal(t, "50.00", debit.String())
	assert.True(t, credit.IsZero())

	debit, credit = accounting.TrialBalanceColumns(domain.Liability, money("50.00"))
	assert.True(t, debit.IsZero())
	assert.Equal(t, "50.00", credit.String())

	// overdrawn cash: abnormal credit balance goes to the credit column as a positive amount
	debit, credit = accounting.TrialBalanceColumns(domain.Asset, money("-20.00"))
	assert.True(t, debit.IsZero())
	assert.Equal(t, "20.00", credit.String())

	debit, credit = accounting.TrialBalanceColumns(domain.Revenue, money("-5.00"))
	assert.Equal(t, "5.00", debit.String())
	assert.True(t, credit.IsZero())
}

func TestSignedLineAmount(t *testing.T) {
	line := domain.JournalLine{Debit: money("10.00"), Credit: money("0")}
	assert.Equal(t, "10.00", accounting.SignedLineAmount(domain.Asset, line).String())
	assert.Equal(t, "-10.00", accounting.SignedLineAmount(domain.Revenue, line).String())
}
