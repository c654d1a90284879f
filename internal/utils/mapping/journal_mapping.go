package mapping

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry.
// Lines are converted separately with ToModelJournalLine.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:     d.EntryID,
		Seq:         d.Seq,
		CompanyID:   d.CompanyID,
		EntryDate:   domain.NormalizeDate(d.Date),
		Description: d.Description,
		Reference:   d.Reference,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
	if d.ReversesEntryID != "" {
		reversed := d.ReversesEntryID
		m.ReversesEntryID = &reversed
	}
	return m
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) (domain.JournalEntry, error) {
	d := domain.JournalEntry{
		EntryID:     m.EntryID,
		Seq:         m.Seq,
		CompanyID:   m.CompanyID,
		Date:        domain.NormalizeDate(m.EntryDate),
		Description: m.Description,
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt.UTC(),
		CreatedBy:   m.CreatedBy,
		Lines:       make([]domain.JournalLine, 0, len(lines)),
	}
	if m.ReversesEntryID != nil {
		d.ReversesEntryID = *m.ReversesEntryID
	}
	for _, l := range lines {
		line, err := ToDomainJournalLine(l)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		d.Lines = append(d.Lines, line)
	}
	return d, nil
}

// ToModelJournalLine converts a domain JournalLine of the given entry to a model JournalLine.
func ToModelJournalLine(entryID string, d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     entryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		Debit:       d.Debit.Decimal(),
		Credit:      d.Credit.Decimal(),
		AmountScale: int16(d.Amount().Scale()),
		Description: d.Description,
	}
}

// ToDomainJournalLine rebuilds the exact amounts of a stored line at its recorded scale.
func ToDomainJournalLine(m models.JournalLine) (domain.JournalLine, error) {
	scale := int32(m.AmountScale)
	debit, err := domain.MoneyFromDecimal(m.Debit, scale)
	if err != nil {
		return domain.JournalLine{}, fmt.Errorf("line %s debit: %w", m.LineID, err)
	}
	credit, err := domain.MoneyFromDecimal(m.Credit, scale)
	if err != nil {
		return domain.JournalLine{}, fmt.Errorf("line %s credit: %w", m.LineID, err)
	}
	return domain.JournalLine{
		LineID:      m.LineID,
		LineNo:      m.LineNo,
		AccountID:   m.AccountID,
		Debit:       debit,
		Credit:      credit,
		Description: m.Description,
	}, nil
}

// ToDomainPostedLine converts a joined line row to a domain PostedLine.
func ToDomainPostedLine(m models.PostedLine) (domain.PostedLine, error) {
	line, err := ToDomainJournalLine(m.JournalLine)
	if err != nil {
		return domain.PostedLine{}, err
	}
	return domain.PostedLine{
		JournalLine:      line,
		EntryID:          m.EntryID,
		Seq:              m.Seq,
		Date:             domain.NormalizeDate(m.EntryDate),
		EntryDescription: m.EntryDescription,
		Reference:        m.Reference,
	}, nil
}

// ToDomainTotals converts an aggregated totals row to domain Totals.
func ToDomainTotals(m models.AccountTotals) (domain.Totals, error) {
	scale := int32(m.AmountScale)
	debit, err := domain.MoneyFromDecimal(m.Debit, scale)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("account %s debit total: %w", m.AccountID, err)
	}
	credit, err := domain.MoneyFromDecimal(m.Credit, scale)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("account %s credit total: %w", m.AccountID, err)
	}
	return domain.Totals{Debit: debit, Credit: credit}, nil
}

// ToDomainSplitTotals converts a divided totals row to its two domain halves.
func ToDomainSplitTotals(m models.AccountSplitTotals) (domain.Totals, domain.Totals, error) {
	before, err := ToDomainTotals(models.AccountTotals{AccountID: m.AccountID, Debit: m.BeforeDebit, Credit: m.BeforeCredit, AmountScale: m.AmountScale})
	if err != nil {
		return domain.Totals{}, domain.Totals{}, err
	}
	since, err := ToDomainTotals(models.AccountTotals{AccountID: m.AccountID, Debit: m.SinceDebit, Credit: m.SinceCredit, AmountScale: m.AmountScale})
	if err != nil {
		return domain.Totals{}, domain.Totals{}, err
	}
	return before, since, nil
}
