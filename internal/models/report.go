package models

import "ptrwatch/internal/ptr"

// Report is a stored disclosure filing. FilingID is the House's own
// identifier and the deduplication key for ingestion.
type Report struct {
	FilingID           int64         `gorm:"primaryKey;autoIncrement:false" json:"filing_id"`
	RepresentativeName string        `gorm:"not null;index" json:"representative_name"`
	SignedDate         ptr.Date      `gorm:"not null" json:"signed_date"`
	SourcePath         string        `json:"source_path,omitempty"`
	RecordedOn         ptr.Date      `gorm:"not null" json:"recorded_on"`
	Transactions       []Transaction `gorm:"foreignKey:FilingID;references:FilingID" json:"transactions,omitempty"`
	Timestamps
}

// NewReport converts a parsed report into its stored form. Transactions keep
// their document order in Position and are keyed by their identity hash.
func NewReport(parsed ptr.Report, sourcePath string, recordedOn ptr.Date) Report {
	report := Report{
		FilingID:           parsed.FilingID,
		RepresentativeName: parsed.RepresentativeName,
		SignedDate:         parsed.SignedDate,
		SourcePath:         sourcePath,
		RecordedOn:         recordedOn,
		Transactions:       make([]Transaction, 0, len(parsed.Transactions)),
	}
	for i, t := range parsed.Transactions {
		report.Transactions = append(report.Transactions, NewTransaction(parsed.FilingID, i, t, recordedOn))
	}
	return report
}
