package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
)

// ingestRunService records batch ingest runs and their failed documents.
type ingestRunService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewIngestRunService creates a new IngestRunServicer.
func NewIngestRunService(db *gorm.DB) IngestRunServicer {
	return &ingestRunService{db: db, now: time.Now}
}

// StartRun creates a running run record.
func (s *ingestRunService) StartRun(params IngestRunParams) (*models.IngestRun, error) {
	if params.Trigger == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Trigger is required")
	}

	run := &models.IngestRun{
		Trigger:    params.Trigger,
		LastName:   params.LastName,
		FilingYear: params.FilingYear,
		State:      params.State,
		District:   params.District,
		Status:     models.IngestRunRunning,
		StartedAt:  s.now(),
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return run, nil
}

// RecordFailure stores one failed document. Errors are logged but never
// propagate so a bookkeeping problem cannot abort the batch.
func (s *ingestRunService) RecordFailure(runID, path, kind, message string) {
	entry := &models.IngestFailure{
		RunID:   runID,
		Path:    path,
		Kind:    kind,
		Message: message,
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to record ingest failure",
			"error", err,
			"run_id", runID,
			"path", path,
			"kind", kind,
		)
	}
}

// FinishRun stamps the run's end and outcome and saves its counters.
func (s *ingestRunService) FinishRun(run *models.IngestRun, runErr error) error {
	finished := s.now()
	run.FinishedAt = &finished
	run.Status = models.IngestRunCompleted
	if runErr != nil {
		run.Status = models.IngestRunFailed
		run.Error = runErr.Error()
	}

	if err := s.db.Save(run).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRun returns a run with its failures.
func (s *ingestRunService) GetRun(id string) (*models.IngestRun, error) {
	var run models.IngestRun
	err := s.db.
		Preload("Failures", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&run, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIngestRunNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &run, nil
}

// ListRuns returns a paginated list of runs, most recent first.
func (s *ingestRunService) ListRuns(page pagination.PageRequest) (*pagination.PageResponse[models.IngestRun], error) {
	result, err := pagination.Find[models.IngestRun](s.db.Model(&models.IngestRun{}), page, "started_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
