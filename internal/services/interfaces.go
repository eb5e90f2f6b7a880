package services

import (
	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
	"ptrwatch/internal/ptr"
)

// WriteResult reports what SaveReports stored.
type WriteResult struct {
	ReportsWritten       int `json:"reports_written"`
	ReportsSkipped       int `json:"reports_skipped"`
	TransactionsWritten  int `json:"transactions_written"`
	TransactionsExpected int `json:"transactions_expected"`
}

// Complete reports whether every transaction of every written report was
// stored. Rows whose identity already existed are not.
func (w WriteResult) Complete() bool {
	return w.TransactionsWritten == w.TransactionsExpected
}

// ReportFilter holds optional filter parameters for listing reports.
type ReportFilter struct {
	// Representative matches any part of the representative's name,
	// ignoring case.
	Representative string
	// Year matches the year the report was signed.
	Year int
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FilingID  *int64
	Ticker    string
	Type      *ptr.TransactionType
	AssetType string
}

// ReportServicer defines the contract for storing and querying parsed reports.
type ReportServicer interface {
	SaveReports(reports []models.Report) (*WriteResult, error)
	ExistingFilingIDs(filingIDs []int64) (map[int64]bool, error)
	GetReport(filingID int64) (*models.Report, error)
	ListReports(filter ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error)
	ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// IngestRunParams describes the search a run was started for.
type IngestRunParams struct {
	Trigger    models.IngestTrigger
	LastName   string
	FilingYear int
	State      string
	District   string
}

// IngestRunServicer defines the contract for batch ingest bookkeeping.
type IngestRunServicer interface {
	StartRun(params IngestRunParams) (*models.IngestRun, error)
	RecordFailure(runID, path, kind, message string)
	FinishRun(run *models.IngestRun, runErr error) error
	GetRun(id string) (*models.IngestRun, error)
	ListRuns(page pagination.PageRequest) (*pagination.PageResponse[models.IngestRun], error)
}
