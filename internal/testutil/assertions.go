package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/models"
	"ptrwatch/internal/ptr"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError with code %q, got %T: %v", expectedCode, err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertParseFailure checks that doc failed with the given kind.
func AssertParseFailure(t *testing.T, doc ptr.DocumentResult, kind ptr.ErrorKind) {
	t.Helper()

	if doc.Success {
		t.Fatalf("expected %s parsing %s, got success", kind, doc.Path)
	}
	if doc.Kind != kind {
		t.Errorf("expected %s parsing %s, got %s: %s", kind, doc.Path, doc.Kind, doc.Message)
	}
}

// AssertStoredTransactions checks how many transaction rows are stored for
// filingID, or in total when filingID is 0.
func AssertStoredTransactions(t *testing.T, db *gorm.DB, filingID int64, want int) {
	t.Helper()

	query := db.Model(&models.Transaction{})
	if filingID != 0 {
		query = query.Where("filing_id = ?", filingID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	if count != int64(want) {
		t.Errorf("expected %d stored transactions, got %d", want, count)
	}
}
