package domain

import "time"

// JournalLine is one debit or credit leg of a journal entry.
// Exactly one of Debit and Credit is nonzero, and that amount is positive.
type JournalLine struct {
	LineID      string `json:"lineID"`
	LineNo      int    `json:"lineNo"` // 1-based position within the entry
	AccountID   string `json:"accountID"`
	Debit       Money  `json:"debit"`
	Credit      Money  `json:"credit"`
	Description string `json:"description,omitempty"`
}

// Side returns the column the line posts to.
func (l JournalLine) Side() Side {
	if l.Debit.IsZero() {
		return Credit
	}
	return Debit
}

// Amount returns the nonzero side of the line.
func (l JournalLine) Amount() Money {
	if l.Debit.IsZero() {
		return l.Credit
	}
	return l.Debit
}

// JournalEntry is a dated, balanced set of lines. Entries are immutable once posted;
// corrections are made by posting a reversing entry.
type JournalEntry struct {
	EntryID         string        `json:"entryID"`
	Seq             int64         `json:"seq"` // store-assigned insertion order, breaks ties between same-date entries
	CompanyID       string        `json:"companyID"`
	Date            time.Time     `json:"date"`
	Description     string        `json:"description"`
	Reference       string        `json:"reference,omitempty"`
	ReversesEntryID string        `json:"reversesEntryID,omitempty"`
	CreatedBy       string        `json:"createdBy"`
	CreatedAt       time.Time     `json:"createdAt"`
	Lines           []JournalLine `json:"lines"`
}

// Totals sums the debit and credit columns of the entry.
func (e JournalEntry) Totals() Totals {
	var t Totals
	for _, l := range e.Lines {
		t = t.AddLine(l)
	}
	return t
}

// Before orders entries by date and then by insertion sequence.
func (e JournalEntry) Before(o JournalEntry) bool {
	if !e.Date.Equal(o.Date) {
		return e.Date.Before(o.Date)
	}
	return e.Seq < o.Seq
}

// PostedLine is a journal line together with the header fields of its entry.
type PostedLine struct {
	JournalLine
	EntryID          string    `json:"entryID"`
	Seq              int64     `json:"seq"`
	Date             time.Time `json:"date"`
	EntryDescription string    `json:"entryDescription"`
	Reference        string    `json:"reference,omitempty"`
}

// Totals accumulates the debit and credit columns of a set of lines.
type Totals struct {
	Debit  Money `json:"debit"`
	Credit Money `json:"credit"`
}

// AddLine adds a line to the running totals.
func (t Totals) AddLine(l JournalLine) Totals {
	return Totals{Debit: t.Debit.Add(l.Debit), Credit: t.Credit.Add(l.Credit)}
}

// Add combines two totals.
func (t Totals) Add(o Totals) Totals {
	return Totals{Debit: t.Debit.Add(o.Debit), Credit: t.Credit.Add(o.Credit)}
}

// Net is debits minus credits.
func (t Totals) Net() Money {
	return t.Debit.Sub(t.Credit)
}

// SplitTotals is a per-account totals snapshot divided at a date. Before holds
// lines dated strictly before the split, Since the remainder of the range.
type SplitTotals struct {
	Before map[string]Totals
	Since  map[string]Totals
}

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Through returns the range of every date up to and including asOf.
func Through(asOf time.Time) DateRange {
	return DateRange{To: NormalizeDate(asOf)}
}

// Between returns the inclusive range [from, to].
func Between(from, to time.Time) DateRange {
	return DateRange{From: NormalizeDate(from), To: NormalizeDate(to)}
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

// EntryCursor marks a position in (date, seq) order for keyset pagination.
type EntryCursor struct {
	Date time.Time
	Seq  int64
}

// EntryFilter narrows an entry listing.
type EntryFilter struct {
	AccountID  string       // only entries touching this account
	Reference  string       // exact reference match
	Descending bool         // newest first
	After      *EntryCursor // resume strictly after this position in the chosen order
	Limit      int          // 0 means no limit
}

// Passes reports whether e satisfies the cursor and field filters.
func (f EntryFilter) Passes(e JournalEntry) bool {
	if f.Reference != "" && e.Reference != f.Reference {
		return false
	}
	if f.AccountID != "" {
		found := false
		for _, l := range e.Lines {
			if l.AccountID == f.AccountID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.After != nil {
		pivot := JournalEntry{Date: f.After.Date, Seq: f.After.Seq}
		if f.Descending {
			return e.Before(pivot)
		}
		return pivot.Before(e)
	}
	return true
}
