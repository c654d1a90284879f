package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table. Rows are insert-only.
type JournalEntry struct {
	EntryID         string    `db:"entry_id"`
	Seq             int64     `db:"seq"`
	CompanyID       string    `db:"company_id"`
	EntryDate       time.Time `db:"entry_date"`
	Description     string    `db:"description"`
	Reference       string    `db:"reference"`
	ReversesEntryID *string   `db:"reverses_entry_id"`
	CreatedAt       time.Time `db:"created_at"`
	CreatedBy       string    `db:"created_by"`
}

// JournalLine is a row of the journal_lines table.
// AmountScale records the currency scale the amounts were posted at.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	AmountScale int16           `db:"amount_scale"`
	Description string          `db:"description"`
}

// PostedLine is a journal_lines row joined with its entry header.
type PostedLine struct {
	JournalLine
	Seq              int64     `db:"seq"`
	EntryDate        time.Time `db:"entry_date"`
	EntryDescription string    `db:"entry_description"`
	Reference        string    `db:"reference"`
}

// AccountTotals is one row of a per-account debit and credit aggregation.
type AccountTotals struct {
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	AmountScale int16           `db:"amount_scale"`
}

// AccountSplitTotals is one row of a per-account aggregation divided at a date.
type AccountSplitTotals struct {
	AccountID    string          `db:"account_id"`
	AmountScale  int16           `db:"amount_scale"`
	BeforeDebit  decimal.Decimal `db:"before_debit"`
	BeforeCredit decimal.Decimal `db:"before_credit"`
	SinceDebit   decimal.Decimal `db:"since_debit"`
	SinceCredit  decimal.Decimal `db:"since_credit"`
}
