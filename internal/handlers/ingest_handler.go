package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ptrwatch/internal/disclosure"
	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/ingest"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
	"ptrwatch/internal/services"
	"ptrwatch/internal/uuid"
)

// IngestRunner executes one batch ingest.
type IngestRunner interface {
	Run(ctx context.Context, q disclosure.Query, trigger models.IngestTrigger) (*ingest.RunResult, error)
}

// IngestHandler starts batch ingests and reports on past runs.
type IngestHandler struct {
	runner     IngestRunner
	runService services.IngestRunServicer
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(runner IngestRunner, runService services.IngestRunServicer) *IngestHandler {
	return &IngestHandler{runner: runner, runService: runService}
}

// IngestRequest is the disclosure search an ingest runs for.
type IngestRequest struct {
	LastName   string `json:"last_name" binding:"omitempty,max=100"`
	FilingYear int    `json:"filing_year" binding:"required,filing_year"`
	State      string `json:"state" binding:"omitempty,us_state"`
	District   string `json:"district" binding:"omitempty,numeric,max=2"`
}

// StartIngest handles running a batch ingest.
// @Summary     Run ingest
// @Description Search the disclosure site, download new reports, parse and store them (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body IngestRequest true "Disclosure search"
// @Success     200 {object} map[string]ingest.RunResult "Run summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     502 {object} ErrorResponse "Disclosure site unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/ingest [post]
func (h *IngestHandler) StartIngest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.runner.Run(c.Request.Context(), disclosure.Query{
		LastName:   req.LastName,
		FilingYear: req.FilingYear,
		State:      req.State,
		District:   req.District,
	}, models.TriggerAPI)
	if err != nil {
		if errors.Is(err, ingest.ErrSearchFailed) {
			respondWithError(c, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err))
			return
		}
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": result})
}

// ListRuns handles listing past ingest runs.
// @Summary     List ingest runs
// @Description Get a paginated list of ingest runs, most recent first (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.IngestRun] "Paginated runs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/runs [get]
func (h *IngestHandler) ListRuns(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.runService.ListRuns(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRun handles retrieving one ingest run with its failed documents.
// @Summary     Get ingest run
// @Description Get an ingest run and the documents it failed on (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Run ID"
// @Success     200 {object} map[string]models.IngestRun "Run"
// @Failure     400 {object} ErrorResponse "Invalid run ID"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Run not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/runs/{id} [get]
func (h *IngestHandler) GetRun(c *gin.Context) {
	id := c.Param("id")
	if !uuid.IsValid(id) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid id"))
		return
	}

	run, err := h.runService.GetRun(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run})
}
