package pgsql

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const (
	entryColumns = `entry_id, seq, company_id, entry_date, description, reference, reverses_entry_id, created_at, created_by`
	lineColumns  = `line_id, entry_id, line_no, account_id, debit, credit, amount_scale, description`

	reversalConstraint = "journal_entries_reverses_entry_id_key"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for the append-only ledger.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// AppendEntry stores the entry header and its lines in one transaction. A
// transaction-scoped advisory lock on the company serialises appends, so
// sequence numbers of one company are assigned in commit order.
func (r *PgxJournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	defer r.Rollback(ctx, tx) // no-op after a successful commit

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, entry.CompanyID); err != nil {
		return domain.JournalEntry{}, mapError(err, "lock company ledger")
	}

	header := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (entry_id, company_id, entry_date, description, reference, reverses_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq;
	`
	err = tx.QueryRow(ctx, headerQuery,
		header.EntryID, header.CompanyID, header.EntryDate, header.Description, header.Reference,
		header.ReversesEntryID, header.CreatedAt, header.CreatedBy,
	).Scan(&header.Seq)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == reversalConstraint {
			return domain.JournalEntry{}, fmt.Errorf("%w: entry %s has already been reversed", apperrors.ErrConflict, entry.ReversesEntryID)
		}
		return domain.JournalEntry{}, mapError(err, "journal entry "+header.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, line := range entry.Lines {
		m := mapping.ToModelJournalLine(entry.EntryID, line)
		batch.Queue(lineQuery, m.LineID, m.EntryID, m.LineNo, m.AccountID, m.Debit, m.Credit, m.AmountScale, m.Description)
	}
	br := tx.SendBatch(ctx, batch)
	for range entry.Lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return domain.JournalEntry{}, mapError(err, "journal lines of "+header.EntryID)
		}
	}
	if err := br.Close(); err != nil {
		return domain.JournalEntry{}, mapError(err, "journal lines of "+header.EntryID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.JournalEntry{}, err
	}

	entry.Seq = header.Seq
	return entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "journal entry "+entryID,
		`SELECT `+entryColumns+` FROM journal_entries WHERE company_id = $1 AND entry_id = $2;`, companyID, entryID)
}

func (r *PgxJournalRepository) FindReversal(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "reversal of "+entryID,
		`SELECT `+entryColumns+` FROM journal_entries WHERE company_id = $1 AND reverses_entry_id = $2;`, companyID, entryID)
}

// findEntry loads one header and then its lines. Posted rows never change, so
// the two reads cannot observe different versions of the entry.
func (r *PgxJournalRepository) findEntry(ctx context.Context, what string, query string, args ...any) (*domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, what)
	}

	rows, err = r.Pool.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = $1 ORDER BY line_no;`, header.EntryID)
	if err != nil {
		return nil, mapError(err, what)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, mapError(err, what)
	}

	entry, err := mapping.ToDomainJournalEntry(header, lines)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return &entry, nil
}

// EntriesForCompany selects the matching headers, then joins their lines in the
// same statement so every entry is read from one snapshot.
func (r *PgxJournalRepository) EntriesForCompany(ctx context.Context, companyID string, dates domain.DateRange, filter domain.EntryFilter) iter.Seq2[domain.JournalEntry, error] {
	return func(yield func(domain.JournalEntry, error) bool) {
		query, args := entriesQuery(companyID, dates, filter)
		rows, err := r.Pool.Query(ctx, query, args...)
		if err != nil {
			yield(domain.JournalEntry{}, mapError(err, "list journal entries"))
			return
		}
		defer rows.Close()

		var (
			header models.JournalEntry
			lines  []models.JournalLine
		)
		emit := func() bool {
			entry, err := mapping.ToDomainJournalEntry(header, lines)
			if err != nil {
				yield(domain.JournalEntry{}, fmt.Errorf("%w: %v", apperrors.ErrInternal, err))
				return false
			}
			return yield(entry, nil)
		}

		for rows.Next() {
			var h models.JournalEntry
			var l models.JournalLine
			err := rows.Scan(
				&h.EntryID, &h.Seq, &h.CompanyID, &h.EntryDate, &h.Description, &h.Reference,
				&h.ReversesEntryID, &h.CreatedAt, &h.CreatedBy,
				&l.LineID, &l.LineNo, &l.AccountID, &l.Debit, &l.Credit, &l.AmountScale, &l.Description,
			)
			if err != nil {
				yield(domain.JournalEntry{}, mapError(err, "scan journal entry"))
				return
			}
			l.EntryID = h.EntryID
			if header.EntryID != "" && header.EntryID != h.EntryID {
				if !emit() {
					return
				}
				lines = nil
			}
			header = h
			lines = append(lines, l)
		}
		if err := rows.Err(); err != nil {
			yield(domain.JournalEntry{}, mapError(err, "list journal entries"))
			return
		}
		if header.EntryID != "" {
			emit()
		}
	}
}

func (r *PgxJournalRepository) LinesForAccount(ctx context.Context, companyID string, accountID string, dates domain.DateRange) iter.Seq2[domain.PostedLine, error] {
	return func(yield func(domain.PostedLine, error) bool) {
		var q queryBuilder
		where := []string{"e.company_id = " + q.arg(companyID), "l.account_id = " + q.arg(accountID)}
		where = append(where, q.dateConditions("e.entry_date", dates)...)
		query := `
			SELECT l.line_id, l.entry_id, l.line_no, l.account_id, l.debit, l.credit, l.amount_scale, l.description,
				e.seq, e.entry_date, e.description AS entry_description, e.reference
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE ` + strings.Join(where, " AND ") + `
			ORDER BY e.entry_date, e.seq, l.line_no;
		`
		rows, err := r.Pool.Query(ctx, query, q.args...)
		if err != nil {
			yield(domain.PostedLine{}, mapError(err, "list account lines"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			m, err := pgx.RowToStructByName[models.PostedLine](rows)
			if err != nil {
				yield(domain.PostedLine{}, mapError(err, "scan account line"))
				return
			}
			line, err := mapping.ToDomainPostedLine(m)
			if err != nil {
				yield(domain.PostedLine{}, fmt.Errorf("%w: %v", apperrors.ErrInternal, err))
				return
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.PostedLine{}, mapError(err, "list account lines"))
		}
	}
}

func (r *PgxJournalRepository) AccountTotals(ctx context.Context, companyID string, dates domain.DateRange) (map[string]domain.Totals, error) {
	var q queryBuilder
	where := append([]string{"e.company_id = " + q.arg(companyID)}, q.dateConditions("e.entry_date", dates)...)
	query := `
		SELECT l.account_id, SUM(l.debit) AS debit, SUM(l.credit) AS credit, l.amount_scale
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY l.account_id, l.amount_scale;
	`
	rows, err := r.Pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, mapError(err, "account totals")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountTotals])
	if err != nil {
		return nil, mapError(err, "account totals")
	}

	totals := make(map[string]domain.Totals, len(ms))
	for _, m := range ms {
		t, err := mapping.ToDomainTotals(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		totals[m.AccountID] = totals[m.AccountID].Add(t)
	}
	return totals, nil
}

func (r *PgxJournalRepository) SplitAccountTotals(ctx context.Context, companyID string, dates domain.DateRange, split time.Time) (domain.SplitTotals, error) {
	var q queryBuilder
	where := append([]string{"e.company_id = " + q.arg(companyID)}, q.dateConditions("e.entry_date", dates)...)
	before := q.arg(domain.NormalizeDate(split)) + "::date"
	query := `
		SELECT l.account_id, l.amount_scale,
			COALESCE(SUM(l.debit) FILTER (WHERE e.entry_date < ` + before + `), 0) AS before_debit,
			COALESCE(SUM(l.credit) FILTER (WHERE e.entry_date < ` + before + `), 0) AS before_credit,
			COALESCE(SUM(l.debit) FILTER (WHERE e.entry_date >= ` + before + `), 0) AS since_debit,
			COALESCE(SUM(l.credit) FILTER (WHERE e.entry_date >= ` + before + `), 0) AS since_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY l.account_id, l.amount_scale;
	`
	rows, err := r.Pool.Query(ctx, query, q.args...)
	if err != nil {
		return domain.SplitTotals{}, mapError(err, "split account totals")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountSplitTotals])
	if err != nil {
		return domain.SplitTotals{}, mapError(err, "split account totals")
	}

	out := domain.SplitTotals{Before: make(map[string]domain.Totals), Since: make(map[string]domain.Totals)}
	for _, m := range ms {
		before, since, err := mapping.ToDomainSplitTotals(m)
		if err != nil {
			return domain.SplitTotals{}, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		out.Before[m.AccountID] = out.Before[m.AccountID].Add(before)
		out.Since[m.AccountID] = out.Since[m.AccountID].Add(since)
	}
	return out, nil
}

func entriesQuery(companyID string, dates domain.DateRange, filter domain.EntryFilter) (string, []any) {
	var q queryBuilder
	where := []string{"e.company_id = " + q.arg(companyID)}
	where = append(where, q.dateConditions("e.entry_date", dates)...)
	if filter.Reference != "" {
		where = append(where, "e.reference = "+q.arg(filter.Reference))
	}
	if filter.AccountID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM journal_lines x WHERE x.entry_id = e.entry_id AND x.account_id = "+q.arg(filter.AccountID)+")")
	}

	direction, cmp := "ASC", ">"
	if filter.Descending {
		direction, cmp = "DESC", "<"
	}
	if filter.After != nil {
		where = append(where, fmt.Sprintf("(e.entry_date, e.seq) %s (%s::date, %s::bigint)",
			cmp, q.arg(domain.NormalizeDate(filter.After.Date)), q.arg(filter.After.Seq)))
	}

	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	query := `
		WITH picked AS (
			SELECT ` + entryColumns + `
			FROM journal_entries e
			WHERE ` + strings.Join(where, " AND ") + `
			ORDER BY e.entry_date ` + direction + `, e.seq ` + direction + `
			LIMIT ` + q.arg(limit) + `
		)
		SELECT p.entry_id, p.seq, p.company_id, p.entry_date, p.description, p.reference, p.reverses_entry_id,
			p.created_at, p.created_by,
			l.line_id, l.line_no, l.account_id, l.debit, l.credit, l.amount_scale, l.description
		FROM picked p
		JOIN journal_lines l ON l.entry_id = p.entry_id
		ORDER BY p.entry_date ` + direction + `, p.seq ` + direction + `, l.line_no;
	`
	return query, q.args
}

// queryBuilder numbers positional parameters for dynamically assembled filters.
type queryBuilder struct {
	args []any
}

func (q *queryBuilder) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *queryBuilder) dateConditions(column string, dates domain.DateRange) []string {
	var conds []string
	if !dates.From.IsZero() {
		conds = append(conds, column+" >= "+q.arg(domain.NormalizeDate(dates.From))+"::date")
	}
	if !dates.To.IsZero() {
		conds = append(conds, column+" <= "+q.arg(domain.NormalizeDate(dates.To))+"::date")
	}
	return conds
}
