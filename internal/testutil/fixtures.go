package testutil

import (
	"fmt"
	"testing"
	"time"

	"ptrwatch/internal/models"
	"ptrwatch/internal/ptr"

	"gorm.io/gorm"
)

// RecordedOn is the insertion date used by report fixtures.
var RecordedOn = ptr.Date{Year: 2024, Month: time.February, Day: 1}

// NewParsedReport builds a parsed report with txCount distinct purchases.
func NewParsedReport(filingID int64, representative string, signed ptr.Date, txCount int) ptr.Report {
	report := ptr.Report{
		FilingID:           filingID,
		RepresentativeName: representative,
		SignedDate:         signed,
	}
	for i := 0; i < txCount; i++ {
		ticker := fmt.Sprintf("TK%d", i)
		name := fmt.Sprintf("Company %d Inc", i)
		report.Transactions = append(report.Transactions, ptr.Transaction{
			Asset:            ptr.Asset{Name: name, Type: "ST", Ticker: &ticker},
			Type:             ptr.Purchase,
			TransactionDate:  ptr.Date{Year: signed.Year, Month: time.January, Day: 2 + i},
			NotificationDate: ptr.Date{Year: signed.Year, Month: time.January, Day: 10 + i},
			Amount:           ptr.AmountRange{Min: 1001, Max: 15000},
			FilingStatus:     ptr.FilingStatusNew,
			RawText:          fmt.Sprintf("%s (%s) [ST] P 01/%02d/%d", name, ticker, 2+i, signed.Year),
		})
	}
	return report
}

// NewTestReport builds an unsaved stored report.
func NewTestReport(filingID int64, representative string, signed ptr.Date, txCount int) models.Report {
	return models.NewReport(NewParsedReport(filingID, representative, signed, txCount), fmt.Sprintf("%d.pdf", filingID), RecordedOn)
}

// CreateTestReport stores a report signed by Jane Doe on 01/15/2024 with two
// transactions.
func CreateTestReport(t *testing.T, db *gorm.DB, filingID int64) *models.Report {
	t.Helper()
	return CreateTestReportWith(t, db, filingID, "Jane Doe", ptr.Date{Year: 2024, Month: time.January, Day: 15}, 2)
}

// CreateTestReportWith stores a report with the given signer, date and
// number of transactions.
func CreateTestReportWith(t *testing.T, db *gorm.DB, filingID int64, representative string, signed ptr.Date, txCount int) *models.Report {
	t.Helper()

	report := NewTestReport(filingID, representative, signed, txCount)
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("failed to create test report: %v", err)
	}
	return &report
}

// CreateTestIngestRun stores a completed run for the given filing year.
func CreateTestIngestRun(t *testing.T, db *gorm.DB, filingYear int, startedAt time.Time) *models.IngestRun {
	t.Helper()

	finished := startedAt.Add(time.Minute)
	run := &models.IngestRun{
		Trigger:    models.TriggerCLI,
		FilingYear: filingYear,
		Status:     models.IngestRunCompleted,
		StartedAt:  startedAt,
		FinishedAt: &finished,
	}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("failed to create test ingest run: %v", err)
	}
	return run
}
