package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingService derives financial statements on demand.
type ReportingService interface {
	TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, companyID string, start, end time.Time, userID string) (*domain.IncomeStatement, error)
	// Dashboard summarizes the given companies, or every company when none are named.
	// month is any date inside the calendar month to report performance for.
	Dashboard(ctx context.Context, companyIDs []string, asOf time.Time, month time.Time, userID string) (*domain.Dashboard, error)
}
