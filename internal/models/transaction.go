package models

import "ptrwatch/internal/ptr"

// Transaction is one stored row of a report's transaction table.
type Transaction struct {
	ID               int64               `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FilingID         int64               `gorm:"not null;index" json:"filing_id"`
	Position         int                 `gorm:"not null" json:"position"`
	AssetName        string              `gorm:"not null" json:"asset_name"`
	AssetType        string              `gorm:"not null;index" json:"asset_type"`
	Ticker           *string             `gorm:"index" json:"ticker,omitempty"`
	FilingStatus     ptr.FilingStatus    `gorm:"not null" json:"filing_status"`
	SubholdingOf     *string             `json:"subholding_of,omitempty"`
	Description      *string             `json:"description,omitempty"`
	Comment          *string             `json:"comment,omitempty"`
	Type             ptr.TransactionType `gorm:"column:type;not null;index" json:"type"`
	TransactionDate  ptr.Date            `gorm:"not null" json:"transaction_date"`
	NotificationDate ptr.Date            `gorm:"not null" json:"notification_date"`
	AmountMin        int64               `gorm:"not null" json:"amount_min"`
	AmountMax        int64               `gorm:"not null" json:"amount_max"`
	RawText          string              `gorm:"not null" json:"raw_text"`
	RecordedOn       ptr.Date            `gorm:"not null" json:"recorded_on"`
	Timestamps
}

// NewTransaction converts the parsed transaction at position in filing
// filingID into its stored form.
func NewTransaction(filingID int64, position int, t ptr.Transaction, recordedOn ptr.Date) Transaction {
	return Transaction{
		ID:               int64(t.Identity(filingID)),
		FilingID:         filingID,
		Position:         position,
		AssetName:        t.Asset.Name,
		AssetType:        t.Asset.Type,
		Ticker:           t.Asset.Ticker,
		FilingStatus:     t.FilingStatus,
		SubholdingOf:     t.SubholdingOf,
		Description:      t.Description,
		Comment:          t.Comment,
		Type:             t.Type,
		TransactionDate:  t.TransactionDate,
		NotificationDate: t.NotificationDate,
		AmountMin:        t.Amount.Min,
		AmountMax:        t.Amount.Max,
		RawText:          t.RawText,
		RecordedOn:       recordedOn,
	}
}

// Amount returns the stored bounds as an amount range.
func (t Transaction) Amount() ptr.AmountRange {
	return ptr.AmountRange{Min: t.AmountMin, Max: t.AmountMax}
}
