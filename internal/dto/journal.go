package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateJournalLineRequest is one line of a journal entry.
// Exactly one of Debit and Credit must be set to a positive amount.
type CreateJournalLineRequest struct {
	AccountID   string       `json:"accountID" binding:"required"` // account ID or account code
	Debit       domain.Money `json:"debit" swaggertype:"string" example:"100.00"`
	Credit      domain.Money `json:"credit" swaggertype:"string" example:"0"`
	Description string       `json:"description"`
}

// CreateJournalRequest defines the data needed to post a journal entry.
// Date and line rules are checked by the posting engine so that rejections carry
// a precise kind, hence no binding rules on those fields.
type CreateJournalRequest struct {
	CompanyID   string                     `json:"companyID" binding:"required"`
	Date        string                     `json:"date" example:"2024-01-15"` // YYYY-MM-DD
	Description string                     `json:"description" binding:"required,max=1024"`
	Reference   string                     `json:"reference" binding:"max=255"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"dive"`
}

// ReverseJournalRequest defines the optional inputs of a reversal.
type ReverseJournalRequest struct {
	Date        string `json:"date" binding:"omitempty,calendar_date"` // defaults to the reversed entry's date
	Description string `json:"description"`                            // defaults to "Reversal of <description>"
}

// ListJournalsParams defines query parameters for listing journal entries.
type ListJournalsParams struct {
	CompanyID string `form:"company_id" binding:"required"`
	AccountID string `form:"account_id"`
	Reference string `form:"reference"`
	StartDate string `form:"start_date" binding:"omitempty,calendar_date"`
	EndDate   string `form:"end_date" binding:"omitempty,calendar_date"`
	Limit     int    `form:"limit,default=100" binding:"min=0,max=500"`
	NextToken string `form:"next_token"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string       `json:"lineID"`
	LineNo      int          `json:"lineNo"`
	AccountID   string       `json:"accountID"`
	Debit       domain.Money `json:"debit" swaggertype:"string"`
	Credit      domain.Money `json:"credit" swaggertype:"string"`
	Description string       `json:"description,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	Seq             int64                 `json:"seq"`
	CompanyID       string                `json:"companyID"`
	Date            string                `json:"date"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference,omitempty"`
	ReversesEntryID string                `json:"reversesEntryID,omitempty"`
	CreatedBy       string                `json:"createdBy"`
	CreatedAt       time.Time             `json:"createdAt"`
	Lines           []JournalLineResponse `json:"lines"`
	TotalDebit      domain.Money          `json:"totalDebit" swaggertype:"string"`
	TotalCredit     domain.Money          `json:"totalCredit" swaggertype:"string"`
}

// ListJournalsResponse wraps a page of journal entries, newest first.
type ListJournalsResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	totals := e.Totals()
	resp := JournalEntryResponse{
		EntryID:         e.EntryID,
		Seq:             e.Seq,
		CompanyID:       e.CompanyID,
		Date:            e.Date.Format(domain.DateLayout),
		Description:     e.Description,
		Reference:       e.Reference,
		ReversesEntryID: e.ReversesEntryID,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		Lines:           make([]JournalLineResponse, len(e.Lines)),
		TotalDebit:      totals.Debit,
		TotalCredit:     totals.Credit,
	}
	for i, l := range e.Lines {
		resp.Lines[i] = JournalLineResponse{
			LineID:      l.LineID,
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return resp
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
