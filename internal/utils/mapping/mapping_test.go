package mapping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

func TestToDomainJournalLine_RestoresScale(t *testing.T) {
	// NUMERIC(24,6) columns come back padded to six digits
	m := models.JournalLine{
		LineID:      "l-1",
		LineNo:      1,
		Debit:       decimal.RequireFromString("1200.500000"),
		Credit:      decimal.RequireFromString("0.000000"),
		AmountScale: 2,
	}
	line, err := ToDomainJournalLine(m)
	require.NoError(t, err)
	assert.Equal(t, "1200.50", line.Debit.String())
	assert.Equal(t, int32(2), line.Credit.Scale())
	assert.Equal(t, domain.Debit, line.Side())

	m.Debit = decimal.RequireFromString("1.005")
	_, err = ToDomainJournalLine(m)
	assert.Error(t, err, "stored digits beyond the recorded scale are corrupt data")
}

func TestToModelJournalLine_RecordsScale(t *testing.T) {
	line := domain.JournalLine{LineID: "l-1", LineNo: 2, AccountID: "a", Credit: domain.MustParseMoney("5", 0), Debit: domain.ZeroMoney(0)}
	m := ToModelJournalLine("e-1", line)
	assert.Equal(t, "e-1", m.EntryID)
	assert.Equal(t, int16(0), m.AmountScale)
	assert.True(t, m.Credit.Equal(decimal.NewFromInt(5)))
	assert.True(t, m.Debit.IsZero())
}

func TestAccountParentNullability(t *testing.T) {
	top := ToModelAccount(domain.Account{AccountID: "a"})
	assert.Nil(t, top.ParentAccountID)

	child := ToModelAccount(domain.Account{AccountID: "b", ParentAccountID: "a"})
	require.NotNil(t, child.ParentAccountID)
	assert.Equal(t, "a", *child.ParentAccountID)
	assert.Equal(t, "a", ToDomainAccount(child).ParentAccountID)
	assert.False(t, ToDomainAccount(top).HasParent())
}

func TestJournalEntryReversalLink(t *testing.T) {
	m := ToModelJournalEntry(domain.JournalEntry{EntryID: "e-2", ReversesEntryID: "e-1"})
	require.NotNil(t, m.ReversesEntryID)

	d, err := ToDomainJournalEntry(m, nil)
	require.NoError(t, err)
	assert.Equal(t, "e-1", d.ReversesEntryID)
	assert.Empty(t, d.Lines)
}
