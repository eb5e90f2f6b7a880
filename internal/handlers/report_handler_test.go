package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
	"ptrwatch/internal/ptr"
	"ptrwatch/internal/services"
)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	r.GET("/reports", handler.ListReports)
	r.GET("/reports/:filing_id", handler.GetReport)
	r.GET("/reports/:filing_id/export", handler.ExportReport)
	r.GET("/transactions", handler.ListTransactions)
	return r
}

func TestReportHandler_ListReports(t *testing.T) {
	t.Run("passes_filters_and_page", func(t *testing.T) {
		var gotFilter services.ReportFilter
		var gotPage pagination.PageRequest
		svc := &mockReportService{
			listReportsFn: func(filter services.ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error) {
				gotFilter, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.Report{*sampleReport(100)}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/reports?representative=doe&year=2024&page=2&page_size=5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Representative != "doe" || gotFilter.Year != 2024 {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}

		result := parseJSON(t, rec)
		if result["total_items"] != float64(6) {
			t.Errorf("expected total_items=6, got %v", result["total_items"])
		}
		data := result["data"].([]interface{})
		first := data[0].(map[string]interface{})
		if first["signed_date"] != "01/15/2024" {
			t.Errorf("expected signed_date=01/15/2024, got %v", first["signed_date"])
		}
	})

	t.Run("returns_400_invalid_year", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/reports?year=1850", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns_400_page_size_too_large", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/reports?page_size=500", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReportHandler_GetReport(t *testing.T) {
	t.Run("returns_200_with_transactions", func(t *testing.T) {
		svc := &mockReportService{
			getReportFn: func(filingID int64) (*models.Report, error) {
				return sampleReport(filingID), nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/reports/20012345", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		report := parseJSON(t, rec)["report"].(map[string]interface{})
		if report["filing_id"] != float64(20012345) {
			t.Errorf("expected filing_id=20012345, got %v", report["filing_id"])
		}
		txs := report["transactions"].([]interface{})
		tx := txs[0].(map[string]interface{})
		if tx["type"] != "purchase" || tx["ticker"] != "AMZN" || tx["transaction_date"] != "01/02/2024" {
			t.Errorf("unexpected transaction %v", tx)
		}
	})

	t.Run("returns_404_not_found", func(t *testing.T) {
		svc := &mockReportService{
			getReportFn: func(int64) (*models.Report, error) { return nil, apperrors.ErrReportNotFound },
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/reports/1", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REPORT_NOT_FOUND")
	})

	t.Run("returns_400_invalid_id", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		for _, path := range []string{"/reports/abc", "/reports/0", "/reports/-4"} {
			rec := doRequest(r, "GET", path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, rec.Code)
			}
		}
	})
}

func TestReportHandler_ExportReport(t *testing.T) {
	svc := &mockReportService{
		getReportFn: func(filingID int64) (*models.Report, error) {
			return sampleReport(filingID), nil
		},
	}
	r := setupReportRouter(NewReportHandler(svc))

	rec := doRequest(r, "GET", "/reports/20012345/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "ptr-20012345.csv") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "filing_id,representative") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Amazon.com, Inc."`) {
		t.Errorf("expected quoted asset name, got %q", lines[1])
	}
}

func TestReportHandler_ListTransactions(t *testing.T) {
	t.Run("builds_filter", func(t *testing.T) {
		var got services.TransactionFilter
		svc := &mockReportService{
			listTransactionsFn: func(filter services.TransactionFilter, _ pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/transactions?filing_id=100&ticker=amzn&type=partial%20sale&asset_type=ST", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.FilingID == nil || *got.FilingID != 100 {
			t.Errorf("expected filing_id filter 100, got %v", got.FilingID)
		}
		if got.Type == nil || *got.Type != ptr.PartialSale {
			t.Errorf("expected partial sale filter, got %v", got.Type)
		}
		if got.Ticker != "amzn" || got.AssetType != "ST" {
			t.Errorf("unexpected filter %+v", got)
		}
	})

	t.Run("no_filters", func(t *testing.T) {
		var got services.TransactionFilter
		svc := &mockReportService{
			listTransactionsFn: func(filter services.TransactionFilter, _ pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/transactions", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.FilingID != nil || got.Type != nil {
			t.Errorf("expected empty filter, got %+v", got)
		}
	})

	t.Run("returns_400_unknown_type", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/transactions?type=exchange", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns_400_bad_asset_type", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/transactions?asset_type=STOCK", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
