package domain

import "time"

// DateLayout is the wire and storage format of civil dates.
const DateLayout = "2006-01-02"

// Company is an independent set of books with its own chart of accounts and ledger.
type Company struct {
	CompanyID       string    `json:"companyID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	FiscalYearStart time.Time `json:"fiscalYearStart"` // only month and day are significant
	Currency        string    `json:"currency"`        // ISO 4217
	AuditFields
}

// CurrencyScale returns the number of minor-unit digits of the company currency.
func (c Company) CurrencyScale() int32 {
	scale, err := CurrencyScale(c.Currency)
	if err != nil {
		return 2
	}
	return scale
}

// Zero is a zero amount in the company currency.
func (c Company) Zero() Money {
	return ZeroMoney(c.CurrencyScale())
}

// FiscalYearStartFor returns the first day of the fiscal year containing day.
// A fiscal year starting on January 1st is the calendar year.
func (c Company) FiscalYearStartFor(day time.Time) time.Time {
	month, dom := time.January, 1
	if !c.FiscalYearStart.IsZero() {
		month, dom = c.FiscalYearStart.Month(), c.FiscalYearStart.Day()
	}
	day = NormalizeDate(day)
	start := clampedDate(day.Year(), month, dom)
	if day.Before(start) {
		start = clampedDate(day.Year()-1, month, dom)
	}
	return start
}

// clampedDate is the given date with the day capped at the month's last day,
// so a February 29th anchor falls on the 28th in common years.
func clampedDate(year int, month time.Month, dom int) time.Time {
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); dom > last {
		dom = last
	}
	return time.Date(year, month, dom, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date. Impossible dates such as 2023-02-30 fail.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// NormalizeDate strips the time of day, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current UTC calendar date.
func Today() time.Time {
	return NormalizeDate(time.Now().UTC())
}
