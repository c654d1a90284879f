package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

const (
	defaultJournalPageSize = 100
	minJournalLines        = 2
)

// maxLineAmount is the largest amount a single line may carry. It keeps every
// sum of lines well inside the int64 range of Money at any currency scale.
var maxLineAmount = decimal.New(1, 12)

// journalService is the posting engine and the read side of the ledger.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	companyRepo portsrepo.CompanyReader
	chart       portssvc.ChartReaderSvc
	locks       *CompanyLocks
	now         func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalAuthorizer sets the role authorizer of the journal service.
func WithJournalAuthorizer(authorizer portssvc.UserAuthorizerSvc) JournalServiceOption {
	return func(s *journalService) {
		s.Authorizer = authorizer
	}
}

// WithJournalClock overrides the clock used for CreatedAt stamps.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new journal service. The lock table must be the one
// shared with the account service so chart edits and postings are serialized.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, companyRepo portsrepo.CompanyReader, chart portssvc.ChartReaderSvc, locks *CompanyLocks, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		companyRepo: companyRepo,
		chart:       chart,
		locks:       locks,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// postingRequest is the common input of a posting and a reversal.
type postingRequest struct {
	Date            string
	Description     string
	Reference       string
	ReversesEntryID string
	Lines           []dto.CreateJournalLineRequest
}

func (s *journalService) PostEntry(ctx context.Context, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("company %s: %w", req.CompanyID, err)
	}

	unlock := s.locks.Lock(company.CompanyID)
	defer unlock()

	entry, err := s.post(ctx, company, postingRequest{
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Lines:       req.Lines,
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("company_id", entry.CompanyID),
		slog.Int64("seq", entry.Seq),
		slog.Int("line_count", len(entry.Lines)))
	return entry, nil
}

func (s *journalService) ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseJournalRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("company %s: %w", companyID, err)
	}

	unlock := s.locks.Lock(company.CompanyID)
	defer unlock()

	original, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, err)
	}

	existing, err := s.journalRepo.FindReversal(ctx, companyID, entryID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: entry %s was already reversed by %s", apperrors.ErrConflict, entryID, existing.EntryID)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check for existing reversal", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to check for existing reversal: %w", err)
	}

	date := req.Date
	if date == "" {
		date = original.Date.Format(domain.DateLayout)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Reversal of " + original.Description
	}

	lines := make([]dto.CreateJournalLineRequest, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = dto.CreateJournalLineRequest{
			AccountID:   l.AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		}
	}

	reversal, err := s.post(ctx, company, postingRequest{
		Date:            date,
		Description:     description,
		Reference:       original.Reference,
		ReversesEntryID: original.EntryID,
		Lines:           lines,
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("company_id", companyID))
	return reversal, nil
}

// post validates req against the company's chart and appends it. The caller holds the company lock.
func (s *journalService) post(ctx context.Context, company *domain.Company, req postingRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.buildEntry(ctx, company, req)
	if err != nil {
		var postingErr *apperrors.PostingError
		if errors.As(err, &postingErr) {
			s.LogDebug(ctx, "Journal entry rejected",
				slog.String("company_id", company.CompanyID),
				slog.String("kind", apperrors.KindName(postingErr)),
				slog.Int("line", postingErr.Line),
				slog.String("reason", postingErr.Message))
		}
		return nil, err
	}

	entry.CreatedBy = userID
	entry.CreatedAt = s.now().UTC()

	stored, err := s.journalRepo.AppendEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to append journal entry", slog.String("company_id", company.CompanyID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}
	return &stored, nil
}

// buildEntry runs every posting check in order and returns the entry ready to append.
// Nothing is written here; the first failing check decides the rejection.
func (s *journalService) buildEntry(ctx context.Context, company *domain.Company, req postingRequest) (domain.JournalEntry, error) {
	if len(req.Lines) < minJournalLines {
		return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrInvalidLine, 0,
			"an entry needs at least %d lines, got %d", minJournalLines, len(req.Lines))
	}

	accountIDs := make([]string, len(req.Lines))
	for i, l := range req.Lines {
		lineNo := i + 1
		acc, err := s.chart.Resolve(ctx, company.CompanyID, l.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrUnknownAccount, lineNo,
					"account %q does not exist in company %s", l.AccountID, company.Code)
			}
			return domain.JournalEntry{}, fmt.Errorf("failed to resolve account of line %d: %w", lineNo, err)
		}
		if !acc.IsActive {
			return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrInactiveAccount, lineNo,
				"account %s (%s) is inactive", acc.Code, acc.Name)
		}
		accountIDs[i] = acc.AccountID
	}

	scale := company.CurrencyScale()
	totals := domain.Totals{Debit: company.Zero(), Credit: company.Zero()}
	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		lineNo := i + 1
		debit, credit, err := normalizeLine(l, scale)
		if err != nil {
			return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrInvalidLine, lineNo, "%s", err.Error())
		}
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			LineNo:      lineNo,
			AccountID:   accountIDs[i],
			Debit:       debit,
			Credit:      credit,
			Description: l.Description,
		}
		if totals.Debit, err = totals.Debit.CheckedAdd(debit); err == nil {
			totals.Credit, err = totals.Credit.CheckedAdd(credit)
		}
		if err != nil {
			return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrInvalidLine, lineNo,
				"entry totals exceed the supported range")
		}
	}

	if !totals.Debit.Equal(totals.Credit) {
		return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrUnbalancedEntry, 0,
			"debits %s do not equal credits %s", totals.Debit, totals.Credit)
	}

	date, err := domain.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return domain.JournalEntry{}, apperrors.NewPostingError(apperrors.ErrInvalidDate, 0,
			"date %q is not a valid YYYY-MM-DD calendar date", req.Date)
	}

	return domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       company.CompanyID,
		Date:            date,
		Description:     strings.TrimSpace(req.Description),
		Reference:       strings.TrimSpace(req.Reference),
		ReversesEntryID: req.ReversesEntryID,
		Lines:           lines,
	}, nil
}

// normalizeLine checks the one-sided rule and expresses both sides at the currency scale.
func normalizeLine(l dto.CreateJournalLineRequest, scale int32) (debit, credit domain.Money, err error) {
	switch {
	case l.Debit.IsNegative() || l.Credit.IsNegative():
		return debit, credit, errors.New("amounts must not be negative")
	case l.Debit.IsZero() && l.Credit.IsZero():
		return debit, credit, errors.New("either debit or credit must be set")
	case !l.Debit.IsZero() && !l.Credit.IsZero():
		return debit, credit, errors.New("a line cannot carry both a debit and a credit")
	}
	for _, m := range []domain.Money{l.Debit, l.Credit} {
		if m.Decimal().GreaterThan(maxLineAmount) {
			return debit, credit, fmt.Errorf("amount %s exceeds the maximum of %s", m, maxLineAmount)
		}
	}
	if debit, err = l.Debit.WithScale(scale); err != nil {
		return debit, credit, err
	}
	if credit, err = l.Credit.WithScale(scale); err != nil {
		return debit, credit, err
	}
	return debit, credit, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalsParams, userID string) (*dto.ListJournalsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, params.CompanyID); err != nil {
		return nil, fmt.Errorf("company %s: %w", params.CompanyID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}

	var dates domain.DateRange
	if params.StartDate != "" {
		from, err := domain.ParseDate(params.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_date %q", apperrors.ErrValidation, params.StartDate)
		}
		dates.From = from
	}
	if params.EndDate != "" {
		to, err := domain.ParseDate(params.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_date %q", apperrors.ErrValidation, params.EndDate)
		}
		dates.To = to
	}

	filter := domain.EntryFilter{
		Reference:  params.Reference,
		Descending: true,
		Limit:      limit + 1, // one extra row tells whether another page exists
	}
	if params.AccountID != "" {
		acc, err := s.chart.Resolve(ctx, params.CompanyID, params.AccountID)
		if err != nil {
			return nil, err
		}
		filter.AccountID = acc.AccountID
	}
	if params.NextToken != "" {
		date, seq, err := pagination.DecodeDateSeqToken(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.After = &domain.EntryCursor{Date: date, Seq: seq}
	}

	entries := make([]domain.JournalEntry, 0, limit)
	var hasMore bool
	for entry, err := range s.journalRepo.EntriesForCompany(ctx, params.CompanyID, dates, filter) {
		if err != nil {
			s.LogError(ctx, err, "Failed to list journal entries", slog.String("company_id", params.CompanyID))
			return nil, fmt.Errorf("failed to list journal entries: %w", err)
		}
		if len(entries) == limit {
			hasMore = true
			break
		}
		entries = append(entries, entry)
	}

	resp := &dto.ListJournalsResponse{Entries: dto.ToJournalEntryResponses(entries)}
	if hasMore {
		last := entries[len(entries)-1]
		token := pagination.EncodeDateSeqToken(last.Date, last.Seq)
		resp.NextToken = &token
	}
	return resp, nil
}
