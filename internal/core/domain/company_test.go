package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestCompany_FiscalYearStartFor(t *testing.T) {
	tests := []struct {
		name  string
		start string
		asOf  string
		want  string
	}{
		{name: "calendar year", start: "", asOf: "2024-06-30", want: "2024-01-01"},
		{name: "april start, after anchor", start: "2020-04-01", asOf: "2024-06-30", want: "2024-04-01"},
		{name: "april start, before anchor", start: "2020-04-01", asOf: "2024-03-31", want: "2023-04-01"},
		{name: "leap day anchor in a leap year", start: "2020-02-29", asOf: "2024-03-15", want: "2024-02-29"},
		{name: "leap day anchor in a common year", start: "2020-02-29", asOf: "2023-03-15", want: "2023-02-28"},
		{name: "leap day anchor on the clamped day", start: "2020-02-29", asOf: "2023-02-28", want: "2023-02-28"},
		{name: "leap day anchor before the clamped day", start: "2020-02-29", asOf: "2023-02-27", want: "2022-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var company domain.Company
			if tt.start != "" {
				start, err := domain.ParseDate(tt.start)
				require.NoError(t, err)
				company.FiscalYearStart = start
			}
			asOf, err := domain.ParseDate(tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, company.FiscalYearStartFor(asOf).Format(domain.DateLayout))
		})
	}
}
