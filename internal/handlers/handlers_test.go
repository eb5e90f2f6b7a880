package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
	"ptrwatch/internal/validator"
)

// --- mock report service ---

type mockReportService struct {
	saveReportsFn       func(reports []models.Report) (*services.WriteResult, error)
	existingFilingIDsFn func(filingIDs []int64) (map[int64]bool, error)
	getReportFn         func(filingID int64) (*models.Report, error)
	listReportsFn       func(filter services.ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error)
	listTransactionsFn  func(filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

var _ services.ReportServicer = (*mockReportService)(nil)

func (m *mockReportService) SaveReports(reports []models.Report) (*services.WriteResult, error) {
	if m.saveReportsFn != nil {
		return m.saveReportsFn(reports)
	}
	return &services.WriteResult{}, nil
}

func (m *mockReportService) ExistingFilingIDs(filingIDs []int64) (map[int64]bool, error) {
	if m.existingFilingIDsFn != nil {
		return m.existingFilingIDsFn(filingIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockReportService) GetReport(filingID int64) (*models.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(filingID)
	}
	return &models.Report{FilingID: filingID}, nil
}

func (m *mockReportService) ListReports(filter services.ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error) {
	if m.listReportsFn != nil {
		return m.listReportsFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Report{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockReportService) ListTransactions(filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

// --- mock ingest run service ---

type mockIngestRunService struct {
	getRunFn   func(id string) (*models.IngestRun, error)
	listRunsFn func(page pagination.PageRequest) (*pagination.PageResponse[models.IngestRun], error)
}

var _ services.IngestRunServicer = (*mockIngestRunService)(nil)

func (m *mockIngestRunService) StartRun(params services.IngestRunParams) (*models.IngestRun, error) {
	return &models.IngestRun{Trigger: params.Trigger, FilingYear: params.FilingYear}, nil
}

func (m *mockIngestRunService) RecordFailure(_, _, _, _ string) {}

func (m *mockIngestRunService) FinishRun(_ *models.IngestRun, _ error) error { return nil }

func (m *mockIngestRunService) GetRun(id string) (*models.IngestRun, error) {
	if m.getRunFn != nil {
		return m.getRunFn(id)
	}
	return &models.IngestRun{Base: models.Base{ID: id}}, nil
}

func (m *mockIngestRunService) ListRuns(page pagination.PageRequest) (*pagination.PageResponse[models.IngestRun], error) {
	if m.listRunsFn != nil {
		return m.listRunsFn(page)
	}
	resp := pagination.NewPageResponse([]models.IngestRun{}, 1, 20, 0)
	return &resp, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func strPtr(s string) *string { return &s }

// sampleReport is a stored report with one purchase.
func sampleReport(filingID int64) *models.Report {
	signed := ptr.Date{Year: 2024, Month: time.January, Day: 15}
	return &models.Report{
		FilingID:           filingID,
		RepresentativeName: "Jane Doe",
		SignedDate:         signed,
		RecordedOn:         signed,
		Transactions: []models.Transaction{{
			ID:               42,
			FilingID:         filingID,
			AssetName:        "Amazon.com, Inc.",
			AssetType:        "ST",
			Ticker:           strPtr("AMZN"),
			FilingStatus:     ptr.FilingStatusNew,
			Type:             ptr.Purchase,
			TransactionDate:  ptr.Date{Year: 2024, Month: time.January, Day: 2},
			NotificationDate: ptr.Date{Year: 2024, Month: time.January, Day: 10},
			AmountMin:        1001,
			AmountMax:        15000,
		}},
	}
}
