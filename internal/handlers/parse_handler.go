package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/metrics"
	"ptrwatch/internal/models"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
)

// ReportParser parses one document on disk.
type ReportParser interface {
	ParseFile(path string) ptr.DocumentResult
}

// ParseHandler parses uploaded report PDFs.
type ParseHandler struct {
	parser        ReportParser
	reportService services.ReportServicer
	metrics       *metrics.Collector
}

// NewParseHandler creates a new ParseHandler. collector may be nil.
func NewParseHandler(parser ReportParser, reportService services.ReportServicer, collector *metrics.Collector) *ParseHandler {
	return &ParseHandler{parser: parser, reportService: reportService, metrics: collector}
}

// ParseReportResponse is the parsed report and, when requested, what was stored.
type ParseReportResponse struct {
	Report ptr.Report            `json:"report"`
	Stored *services.WriteResult `json:"stored,omitempty"`
}

// ParseReport handles parsing an uploaded PTR PDF.
// @Summary     Parse report
// @Description Parse an uploaded periodic transaction report PDF, optionally storing it (pipeline endpoint)
// @Tags        pipeline
// @Accept      multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       file  formData file true  "Report PDF"
// @Param       store formData bool false "Store the parsed report"
// @Success     200 {object} ParseReportResponse "Parsed report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     422 {object} ErrorResponse "Report could not be parsed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/reports/parse [post]
func (h *ParseHandler) ParseReport(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}

	store := false
	if raw := c.PostForm("store"); raw != "" {
		store, err = strconv.ParseBool(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "store must be a boolean"))
			return
		}
	}

	dir, err := os.MkdirTemp("", "ptr-upload-")
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "report.pdf")
	if err := c.SaveUploadedFile(file, path); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	start := time.Now()
	doc := h.parser.ParseFile(path)
	if !doc.Success {
		h.metrics.ObserveParse(string(doc.Kind), 0, time.Since(start))
		respondWithError(c, apperrors.FromParseError(doc.Err()))
		return
	}
	h.metrics.ObserveParse("", len(doc.Data.Transactions), time.Since(start))

	resp := ParseReportResponse{Report: doc.Data}
	if store {
		written, err := h.reportService.SaveReports([]models.Report{
			models.NewReport(doc.Data, file.Filename, ptr.Today()),
		})
		if err != nil {
			respondWithError(c, err)
			return
		}
		h.metrics.ObserveStored(written.ReportsWritten)
		resp.Stored = written
	}

	c.JSON(http.StatusOK, resp)
}
