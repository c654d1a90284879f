package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type lineRef struct {
	entry int // index into entries
	line  int // index into entries[entry].Lines
}

// journalRepository is an append-only ledger. Entries are never modified after
// AppendEntry returns, so readers copy index slices under the read lock and then
// iterate without holding it.
type journalRepository struct {
	mu        sync.RWMutex
	seq       int64
	entries   []domain.JournalEntry
	byID      map[string]int
	byCompany map[string][]int     // sorted by (date, seq)
	byAccount map[string][]lineRef // sorted by (date, seq, line number)
	reversals map[string]int       // reversed entry ID -> reversing entry index
}

func newJournalRepository() *journalRepository {
	return &journalRepository{
		byID:      make(map[string]int),
		byCompany: make(map[string][]int),
		byAccount: make(map[string][]lineRef),
		reversals: make(map[string]int),
	}
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = slices.Clone(e.Lines)
	return e
}

func (r *journalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.JournalEntry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[entry.EntryID]; exists {
		return domain.JournalEntry{}, fmt.Errorf("%w: entry %s already posted", apperrors.ErrDuplicate, entry.EntryID)
	}
	if entry.ReversesEntryID != "" {
		if _, reversed := r.reversals[entry.ReversesEntryID]; reversed {
			return domain.JournalEntry{}, fmt.Errorf("%w: entry %s has already been reversed", apperrors.ErrConflict, entry.ReversesEntryID)
		}
	}

	r.seq++
	stored := cloneEntry(entry)
	stored.Seq = r.seq
	idx := len(r.entries)
	r.entries = append(r.entries, stored)
	r.byID[stored.EntryID] = idx

	// Seq only grows, so a new entry lands after every entry with date <= its date.
	company := r.byCompany[stored.CompanyID]
	pos, _ := slices.BinarySearchFunc(company, stored, func(i int, target domain.JournalEntry) int {
		if r.entries[i].Date.After(target.Date) {
			return 1
		}
		return -1
	})
	r.byCompany[stored.CompanyID] = slices.Insert(company, pos, idx)

	for li, line := range stored.Lines {
		refs := r.byAccount[line.AccountID]
		p, _ := slices.BinarySearchFunc(refs, stored, func(ref lineRef, target domain.JournalEntry) int {
			if r.entries[ref.entry].Date.After(target.Date) {
				return 1
			}
			return -1
		})
		r.byAccount[line.AccountID] = slices.Insert(refs, p, lineRef{entry: idx, line: li})
	}

	if stored.ReversesEntryID != "" {
		r.reversals[stored.ReversesEntryID] = idx
	}
	return cloneEntry(stored), nil
}

func (r *journalRepository) FindEntryByID(_ context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[entryID]
	if !ok || r.entries[idx].CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	e := cloneEntry(r.entries[idx])
	return &e, nil
}

func (r *journalRepository) FindReversal(_ context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.reversals[entryID]
	if !ok || r.entries[idx].CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	e := cloneEntry(r.entries[idx])
	return &e, nil
}

// snapshot copies the index slice so iteration needs no lock; the entries it
// points at are immutable.
func (r *journalRepository) snapshot(companyID string) ([]domain.JournalEntry, []int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries, slices.Clone(r.byCompany[companyID])
}

func (r *journalRepository) EntriesForCompany(ctx context.Context, companyID string, dates domain.DateRange, filter domain.EntryFilter) iter.Seq2[domain.JournalEntry, error] {
	return func(yield func(domain.JournalEntry, error) bool) {
		entries, order := r.snapshot(companyID)
		if filter.Descending {
			slices.Reverse(order)
		}
		emitted := 0
		for _, idx := range order {
			if err := ctx.Err(); err != nil {
				yield(domain.JournalEntry{}, err)
				return
			}
			e := entries[idx]
			if !dates.Contains(e.Date) || !filter.Passes(e) {
				continue
			}
			if !yield(cloneEntry(e), nil) {
				return
			}
			emitted++
			if filter.Limit > 0 && emitted >= filter.Limit {
				return
			}
		}
	}
}

func (r *journalRepository) LinesForAccount(ctx context.Context, companyID string, accountID string, dates domain.DateRange) iter.Seq2[domain.PostedLine, error] {
	return func(yield func(domain.PostedLine, error) bool) {
		r.mu.RLock()
		entries, refs := r.entries, slices.Clone(r.byAccount[accountID])
		r.mu.RUnlock()

		for _, ref := range refs {
			if err := ctx.Err(); err != nil {
				yield(domain.PostedLine{}, err)
				return
			}
			e := entries[ref.entry]
			if e.CompanyID != companyID || !dates.Contains(e.Date) {
				continue
			}
			pl := domain.PostedLine{
				JournalLine:      e.Lines[ref.line],
				EntryID:          e.EntryID,
				Seq:              e.Seq,
				Date:             e.Date,
				EntryDescription: e.Description,
				Reference:        e.Reference,
			}
			if !yield(pl, nil) {
				return
			}
		}
	}
}

func (r *journalRepository) AccountTotals(ctx context.Context, companyID string, dates domain.DateRange) (map[string]domain.Totals, error) {
	entries, order := r.snapshot(companyID)
	totals := make(map[string]domain.Totals)
	for _, idx := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := entries[idx]
		if !dates.Contains(e.Date) {
			continue
		}
		for _, line := range e.Lines {
			totals[line.AccountID] = totals[line.AccountID].AddLine(line)
		}
	}
	return totals, nil
}

func (r *journalRepository) SplitAccountTotals(ctx context.Context, companyID string, dates domain.DateRange, split time.Time) (domain.SplitTotals, error) {
	entries, order := r.snapshot(companyID)
	split = domain.NormalizeDate(split)
	out := domain.SplitTotals{Before: make(map[string]domain.Totals), Since: make(map[string]domain.Totals)}
	for _, idx := range order {
		if err := ctx.Err(); err != nil {
			return domain.SplitTotals{}, err
		}
		e := entries[idx]
		if !dates.Contains(e.Date) {
			continue
		}
		bucket := out.Since
		if e.Date.Before(split) {
			bucket = out.Before
		}
		for _, line := range e.Lines {
			bucket[line.AccountID] = bucket[line.AccountID].AddLine(line)
		}
	}
	return out, nil
}
