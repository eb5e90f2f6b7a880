// Package export writes stored reports in flat file formats.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"ptrwatch/internal/models"
)

// TransactionRow is one CSV line: a transaction with its filing's header
// fields repeated.
type TransactionRow struct {
	FilingID         int64  `csv:"filing_id"`
	Representative   string `csv:"representative"`
	SignedDate       string `csv:"signed_date"`
	Position         int    `csv:"position"`
	TransactionID    int64  `csv:"transaction_id"`
	FilingStatus     string `csv:"filing_status"`
	AssetName        string `csv:"asset_name"`
	Ticker           string `csv:"ticker"`
	AssetType        string `csv:"asset_type"`
	Type             string `csv:"type"`
	TransactionDate  string `csv:"transaction_date"`
	NotificationDate string `csv:"notification_date"`
	AmountMin        int64  `csv:"amount_min"`
	AmountMax        int64  `csv:"amount_max"`
	SubholdingOf     string `csv:"subholding_of"`
	Description      string `csv:"description"`
	Comment          string `csv:"comment"`
}

// Rows flattens a report into CSV rows, in the order of its transactions.
func Rows(r models.Report) []TransactionRow {
	rows := make([]TransactionRow, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		rows = append(rows, TransactionRow{
			FilingID:         r.FilingID,
			Representative:   r.RepresentativeName,
			SignedDate:       r.SignedDate.String(),
			Position:         t.Position,
			TransactionID:    t.ID,
			FilingStatus:     string(t.FilingStatus),
			AssetName:        t.AssetName,
			Ticker:           deref(t.Ticker),
			AssetType:        t.AssetType,
			Type:             string(t.Type),
			TransactionDate:  t.TransactionDate.String(),
			NotificationDate: t.NotificationDate.String(),
			AmountMin:        t.AmountMin,
			AmountMax:        t.AmountMax,
			SubholdingOf:     deref(t.SubholdingOf),
			Description:      deref(t.Description),
			Comment:          deref(t.Comment),
		})
	}
	return rows
}

// WriteReportCSV writes a header line and one line per transaction of r.
// A report without transactions still gets the header line.
func WriteReportCSV(w io.Writer, r models.Report) error {
	if err := gocsv.Marshal(Rows(r), w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
