package repositories

import (
	"context"
	"iter"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations over the append-only ledger.
// Readers observe a consistent snapshot: an entry is visible with all of its lines or not at all.
type JournalReader interface {
	// FindEntryByID retrieves a posted entry with its lines.
	FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// FindReversal returns the entry that reverses entryID, or apperrors.ErrNotFound.
	FindReversal(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// EntriesForCompany yields a company's entries in the range ordered by (date, seq).
	EntriesForCompany(ctx context.Context, companyID string, dates domain.DateRange, filter domain.EntryFilter) iter.Seq2[domain.JournalEntry, error]

	// LinesForAccount yields an account's posted lines in the range ordered by
	// entry date, then entry sequence, then line number.
	LinesForAccount(ctx context.Context, companyID string, accountID string, dates domain.DateRange) iter.Seq2[domain.PostedLine, error]

	// AccountTotals sums the debit and credit columns of every account with
	// activity in the range, keyed by account ID.
	AccountTotals(ctx context.Context, companyID string, dates domain.DateRange) (map[string]domain.Totals, error)

	// SplitAccountTotals is AccountTotals with every account's sums divided at
	// split, computed from a single snapshot so both halves see the same entries.
	SplitAccountTotals(ctx context.Context, companyID string, dates domain.DateRange, split time.Time) (domain.SplitTotals, error)
}

// JournalWriter defines the single write operation of the ledger.
type JournalWriter interface {
	// AppendEntry atomically stores the entry and all of its lines and returns it
	// with its store-assigned sequence number. Posted entries are never modified.
	AppendEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
