package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// journalHandler exposes the posting engine.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journal := rg.Group("/journal")
	{
		journal.POST("", h.postEntry)
		journal.GET("", h.listEntries)
		journal.GET("/:entryID", h.getEntry)
		journal.POST("/:entryID/reverse", h.reverseEntry)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and appends a balanced entry. Rejections carry the failure kind and, for line-level failures, the 1-based line number.
// @Tags journal
// @Accept json
// @Produce json
// @Param entry body dto.CreateJournalRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "UnbalancedEntry, InvalidLine, UnknownAccount, InactiveAccount or InvalidDate"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Company not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("seq", entry.Seq))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Pages through a company's entries, newest first
// @Tags journal
// @Produce json
// @Param company_id query string true "Company ID"
// @Param account_id query string false "Only entries touching this account (ID or code)"
// @Param reference query string false "Exact reference match"
// @Param start_date query string false "Earliest entry date (YYYY-MM-DD)"
// @Param end_date query string false "Latest entry date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(100)
// @Param next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param company_id query string true "Company ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	companyID, ok := requireCompanyQuery(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, c.Param("entryID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts a new entry with every line's sides swapped. An entry can be reversed once.
// @Tags journal
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param company_id query string true "Company ID"
// @Param reversal body dto.ReverseJournalRequest false "Optional date and description"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry already reversed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	companyID, ok := requireCompanyQuery(c)
	if !ok {
		return
	}
	var req dto.ReverseJournalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format", err)
			return
		}
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.ReverseEntry(c.Request.Context(), companyID, c.Param("entryID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func requireCompanyQuery(c *gin.Context) (string, bool) {
	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "company_id query parameter required", Kind: "Validation"})
		return "", false
	}
	return companyID, true
}
