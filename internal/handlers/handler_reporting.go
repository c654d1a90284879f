package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance/:companyID", h.getTrialBalance)
		reports.GET("/balance-sheet/:companyID", h.getBalanceSheet)
		reports.GET("/income-statement/:companyID", h.getIncomeStatement)
		reports.GET("/dashboard", h.getDashboard)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists every active account, and any inactive account with a balance, with its balance in the debit or credit column
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param as_of_date query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance/{companyID} [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, userID, ok := h.asOfRequest(c)
	if !ok {
		return
	}
	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("companyID"), asOf, userID)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity at a date. Equity includes retained and current-year earnings.
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param as_of_date query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/balance-sheet/{companyID} [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, userID, ok := h.asOfRequest(c)
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("companyID"), asOf, userID)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getIncomeStatement godoc
// @Summary Generate income statement report
// @Description Revenue and expense activity between two dates and the resulting net income
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} ErrorResponse "Invalid input or start date after end date"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/income-statement/{companyID} [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	start, end, err := parseRange(params)
	if err != nil {
		badRequest(c, "Invalid date range", err)
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), c.Param("companyID"), start, end, userID)
	if err != nil {
		respondError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// getDashboard godoc
// @Summary Multi-company dashboard
// @Description Balance sheet totals at as_of_date and net income for the month, per company and summed per currency
// @Tags reports
// @Produce json
// @Param company_id query []string false "Company IDs; all companies when omitted" collectionFormat(multi)
// @Param as_of_date query string false "Report date (YYYY-MM-DD)" default(current date)
// @Param month query string false "Any date inside the reported month (YYYY-MM-DD)" default(as_of_date)
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	var params dto.DashboardParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	asOf, err := dateOrToday(params.AsOfDate)
	if err != nil {
		badRequest(c, "Invalid as_of_date", err)
		return
	}
	month := asOf
	if params.Month != "" {
		if month, err = domain.ParseDate(params.Month); err != nil {
			badRequest(c, "Invalid month", err)
			return
		}
	}

	report, err := h.reportingService.Dashboard(c.Request.Context(), params.CompanyIDs, asOf, month, userID)
	if err != nil {
		respondError(c, err, "Failed to generate dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(report))
}

func (h *reportingHandler) asOfRequest(c *gin.Context) (asOf time.Time, userID string, ok bool) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return asOf, "", false
	}
	if userID, ok = requireUserID(c); !ok {
		return asOf, "", false
	}
	asOf, err := dateOrToday(params.AsOfDate)
	if err != nil {
		badRequest(c, "Invalid as_of_date", err)
		return asOf, "", false
	}
	return asOf, userID, true
}
