package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/export"
	"ptrwatch/internal/pagination"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
)

// ReportHandler serves stored reports and transactions.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ListReportsQuery holds the optional report list filters.
type ListReportsQuery struct {
	Representative string `form:"representative" binding:"omitempty,max=200"`
	Year           int    `form:"year" binding:"omitempty,filing_year"`
}

// ListTransactionsQuery holds the optional transaction list filters.
type ListTransactionsQuery struct {
	FilingID  int64               `form:"filing_id" binding:"omitempty,gt=0"`
	Ticker    string              `form:"ticker" binding:"omitempty,max=20"`
	Type      ptr.TransactionType `form:"type" binding:"omitempty,transaction_type"`
	AssetType string              `form:"asset_type" binding:"omitempty,asset_tag"`
}

// ListReports handles listing stored reports.
// @Summary     List reports
// @Description Get a paginated list of stored reports, newest filing first
// @Tags        reports
// @Produce     json
// @Param       representative query string false "Representative name (case-insensitive substring)"
// @Param       year           query int    false "Year the report was signed"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Report] "Paginated reports"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var query ListReportsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.reportService.ListReports(services.ReportFilter{
		Representative: query.Representative,
		Year:           query.Year,
	}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReport handles retrieving one report with its transactions.
// @Summary     Get report
// @Description Get a stored report and its transactions in document order
// @Tags        reports
// @Produce     json
// @Param       filing_id path int true "Filing ID"
// @Success     200 {object} map[string]models.Report "Report"
// @Failure     400 {object} ErrorResponse "Invalid filing ID"
// @Failure     404 {object} ErrorResponse "Report not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/{filing_id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	filingID, err := parseFilingID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetReport(filingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ExportReport handles downloading a report's transactions as CSV.
// @Summary     Export report
// @Description Download a stored report's transactions as CSV
// @Tags        reports
// @Produce     text/csv
// @Param       filing_id path int true "Filing ID"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid filing ID"
// @Failure     404 {object} ErrorResponse "Report not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/{filing_id}/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	filingID, err := parseFilingID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetReport(filingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReportCSV(&buf, *report); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ptr-%d.csv"`, filingID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ListTransactions handles listing stored transactions across reports.
// @Summary     List transactions
// @Description Get a paginated list of transactions, newest filing first and in document order within a filing
// @Tags        transactions
// @Produce     json
// @Param       filing_id  query int    false "Filing ID"
// @Param       ticker     query string false "Ticker (case-insensitive)"
// @Param       type       query string false "Transaction type (purchase, sale, partial sale)"
// @Param       asset_type query string false "Two-letter asset type tag, e.g. ST"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *ReportHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Ticker:    query.Ticker,
		AssetType: query.AssetType,
	}
	if query.FilingID > 0 {
		filter.FilingID = &query.FilingID
	}
	if query.Type != "" {
		filter.Type = &query.Type
	}

	result, err := h.reportService.ListTransactions(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
