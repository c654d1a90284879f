package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// NaturalBalance applies the sign convention of the account type to raw column totals.
// A positive result means the account holds a balance on its normal side.
//
//	DEBIT-normal  (ASSET, EXPENSE):             debits - credits
//	CREDIT-normal (LIABILITY, EQUITY, REVENUE): credits - debits
func NaturalBalance(accountType domain.AccountType, totals domain.Totals) domain.Money {
	if accountType.NormalSide() == domain.Debit {
		return totals.Debit.Sub(totals.Credit)
	}
	return totals.Credit.Sub(totals.Debit)
}

// SignedLineAmount is the effect of a single line on the natural balance of its account.
func SignedLineAmount(accountType domain.AccountType, line domain.JournalLine) domain.Money {
	return NaturalBalance(accountType, domain.Totals{Debit: line.Debit, Credit: line.Credit})
}

// TrialBalanceColumns places a natural balance in the debit or credit column.
// A balance on the abnormal side is shown as a positive amount in the opposite column.
func TrialBalanceColumns(accountType domain.AccountType, natural domain.Money) (debit, credit domain.Money) {
	zero := domain.ZeroMoney(natural.Scale())
	side := accountType.NormalSide()
	if natural.IsNegative() {
		side = side.Opposite()
	}
	if side == domain.Debit {
		return natural.Abs(), zero
	}
	return zero, natural.Abs()
}

// SumColumns totals the debit and credit sides of a set of lines.
func SumColumns(lines []domain.JournalLine, scale int32) domain.Totals {
	t := domain.Totals{Debit: domain.ZeroMoney(scale), Credit: domain.ZeroMoney(scale)}
	for _, l := range lines {
		t = t.AddLine(l)
	}
	return t
}
