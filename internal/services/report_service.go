package services

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pagination"
)

const transactionBatchSize = 200

// reportService handles report persistence and queries.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// SaveReports stores reports whose filing ID is not stored yet, then their
// transactions, in one database transaction. Reports already present, or
// repeated within the batch, are skipped, including ones stored concurrently
// after the existence check. Transactions whose identity already exists are
// left untouched.
func (s *reportService) SaveReports(reports []models.Report) (*WriteResult, error) {
	result := &WriteResult{}
	if len(reports) == 0 {
		return result, nil
	}

	ids := make([]int64, len(reports))
	for i, r := range reports {
		ids[i] = r.FilingID
	}
	existing, err := s.ExistingFilingIDs(ids)
	if err != nil {
		return nil, err
	}

	var rows []models.Report
	seen := make(map[int64]bool, len(reports))
	for _, r := range reports {
		if existing[r.FilingID] || seen[r.FilingID] {
			result.ReportsSkipped++
			continue
		}
		seen[r.FilingID] = true
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return result, nil
	}

	written := *result
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txs []models.Transaction
		for _, r := range rows {
			row := r
			row.Transactions = nil
			created := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&row)
			if created.Error != nil {
				return created.Error
			}
			if created.RowsAffected == 0 {
				written.ReportsSkipped++
				continue
			}
			written.ReportsWritten++
			txs = append(txs, r.Transactions...)
		}
		written.TransactionsExpected = len(txs)

		if len(txs) == 0 {
			return nil
		}
		inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&txs, transactionBatchSize)
		if inserted.Error != nil {
			return inserted.Error
		}
		written.TransactionsWritten = int(inserted.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	*result = written

	if !result.Complete() {
		logger.Get().Warnw("stored fewer transactions than parsed",
			"reports_written", result.ReportsWritten,
			"transactions_written", result.TransactionsWritten,
			"transactions_expected", result.TransactionsExpected,
		)
	}
	return result, nil
}

// ExistingFilingIDs returns the subset of filingIDs already stored.
func (s *reportService) ExistingFilingIDs(filingIDs []int64) (map[int64]bool, error) {
	found := make(map[int64]bool)
	if len(filingIDs) == 0 {
		return found, nil
	}

	var stored []int64
	if err := s.db.Model(&models.Report{}).
		Where("filing_id IN ?", filingIDs).
		Pluck("filing_id", &stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, id := range stored {
		found[id] = true
	}
	return found, nil
}

// GetReport returns a report with its transactions in document order.
func (s *reportService) GetReport(filingID int64) (*models.Report, error) {
	var report models.Report
	err := s.db.
		Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&report, "filing_id = ?", filingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &report, nil
}

// ListReports returns a paginated list of reports, newest filing first.
// Transactions are not loaded.
func (s *reportService) ListReports(filter ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error) {
	base := s.db.Model(&models.Report{})
	if name := strings.TrimSpace(filter.Representative); name != "" {
		base = base.Where("LOWER(representative_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.Year > 0 {
		// Signed dates are stored as MM/DD/YYYY text.
		base = base.Where("signed_date LIKE ?", "%/"+strconv.Itoa(filter.Year))
	}

	result, err := pagination.Find[models.Report](base, page, "filing_id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// ListTransactions returns a paginated list of transactions, grouped by
// filing (newest first) and in document order within a filing.
func (s *reportService) ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{})
	if filter.FilingID != nil {
		base = base.Where("filing_id = ?", *filter.FilingID)
	}
	if ticker := strings.TrimSpace(filter.Ticker); ticker != "" {
		base = base.Where("UPPER(ticker) = ?", strings.ToUpper(ticker))
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if assetType := strings.TrimSpace(filter.AssetType); assetType != "" {
		base = base.Where("asset_type = ?", strings.ToUpper(assetType))
	}

	result, err := pagination.Find[models.Transaction](base, page, "filing_id DESC", "position ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
