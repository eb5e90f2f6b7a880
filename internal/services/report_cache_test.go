package services

import (
	"testing"
	"time"

	"ptrwatch/internal/models"
	"ptrwatch/internal/testutil"
)

// countingReportService counts GetReport calls on top of a real service.
type countingReportService struct {
	ReportServicer
	gets int
}

func (s *countingReportService) GetReport(filingID int64) (*models.Report, error) {
	s.gets++
	return s.ReportServicer.GetReport(filingID)
}

func TestCachedReportService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	testutil.CreateTestReport(t, db, 100)
	inner := &countingReportService{ReportServicer: NewReportService(db)}
	svc := NewCachedReportService(inner, time.Minute)

	t.Run("hit_after_first_read", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			report, err := svc.GetReport(100)
			testutil.AssertNoError(t, err)
			if report.FilingID != 100 {
				t.Fatalf("expected filing 100, got %d", report.FilingID)
			}
		}
		if inner.gets != 1 {
			t.Errorf("expected 1 underlying read, got %d", inner.gets)
		}
	})

	t.Run("misses_are_not_cached", func(t *testing.T) {
		before := inner.gets
		for i := 0; i < 2; i++ {
			_, err := svc.GetReport(999)
			testutil.AssertAppError(t, err, "REPORT_NOT_FOUND")
		}
		if inner.gets-before != 2 {
			t.Errorf("expected 2 underlying reads, got %d", inner.gets-before)
		}
	})

	t.Run("other_methods_pass_through", func(t *testing.T) {
		found, err := svc.ExistingFilingIDs([]int64{100})
		testutil.AssertNoError(t, err)
		if !found[100] {
			t.Error("expected filing 100 to exist")
		}
	})
}

func TestCachedReportService_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	testutil.CreateTestReport(t, db, 100)
	inner := &countingReportService{ReportServicer: NewReportService(db)}

	for _, ttl := range []time.Duration{0, -time.Second} {
		svc := NewCachedReportService(inner, ttl)
		if svc != ReportServicer(inner) {
			t.Errorf("ttl %v: expected the inner service back", ttl)
		}
	}

	svc := NewCachedReportService(inner, 0)
	for i := 0; i < 2; i++ {
		_, err := svc.GetReport(100)
		testutil.AssertNoError(t, err)
	}
	if inner.gets != 2 {
		t.Errorf("expected 2 underlying reads, got %d", inner.gets)
	}
}
