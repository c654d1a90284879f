package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a posted entry.
	GetEntryByID(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of a company's entries, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalsParams, userID string) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc is the posting engine.
type JournalWriterSvc interface {
	// PostEntry validates and appends a journal entry. Rejections are *apperrors.PostingError.
	PostEntry(ctx context.Context, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error)

	// ReverseEntry posts a new entry with every line's sides swapped.
	ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseJournalRequest, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
