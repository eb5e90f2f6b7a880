package models

import "time"

// IngestRunStatus is the lifecycle state of a batch ingest.
type IngestRunStatus string

const (
	IngestRunRunning   IngestRunStatus = "running"
	IngestRunCompleted IngestRunStatus = "completed"
	IngestRunFailed    IngestRunStatus = "failed"
)

// IngestTrigger records what started a run.
type IngestTrigger string

const (
	TriggerAPI      IngestTrigger = "api"
	TriggerSchedule IngestTrigger = "schedule"
	TriggerCLI      IngestTrigger = "cli"
)

// IngestRun records one batch ingest: its query, counters and outcome.
type IngestRun struct {
	Base
	Trigger            IngestTrigger   `gorm:"column:triggered_by;not null" json:"trigger"`
	LastName           string          `json:"last_name,omitempty"`
	FilingYear         int             `gorm:"not null" json:"filing_year"`
	State              string          `json:"state,omitempty"`
	District           string          `json:"district,omitempty"`
	Status             IngestRunStatus `gorm:"not null;index" json:"status"`
	Discovered         int             `json:"discovered"`
	Skipped            int             `json:"skipped"`
	Downloaded         int             `json:"downloaded"`
	Parsed             int             `json:"parsed"`
	Failed             int             `json:"failed"`
	ReportsStored      int             `json:"reports_stored"`
	TransactionsStored int             `json:"transactions_stored"`
	Error              string          `json:"error,omitempty"`
	StartedAt          time.Time       `gorm:"not null" json:"started_at"`
	FinishedAt         *time.Time      `json:"finished_at,omitempty"`
	Failures           []IngestFailure `gorm:"foreignKey:RunID" json:"failures,omitempty"`
}

// IngestFailure is one document a run could not download or parse.
type IngestFailure struct {
	Base
	RunID   string `gorm:"type:uuid;not null;index" json:"run_id"`
	Path    string `gorm:"not null" json:"path"`
	Kind    string `gorm:"not null" json:"kind"`
	Message string `json:"message"`
}
