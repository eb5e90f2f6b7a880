package ptr

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// Transaction is one row of a report's transaction table.
type Transaction struct {
	Asset            Asset           `json:"asset"`
	Type             TransactionType `json:"type"`
	TransactionDate  Date            `json:"transaction_date"`
	NotificationDate Date            `json:"notification_date"`
	Amount           AmountRange     `json:"amount"`
	FilingStatus     FilingStatus    `json:"filing_status"`
	SubholdingOf     *string         `json:"subholding_of,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Comment          *string         `json:"comment,omitempty"`
	// RawText is the exact span of the block the row was parsed from.
	RawText string `json:"raw_text"`
}

// Identity is the stable key of the transaction within a filing: the IEEE
// CRC-32 of "<filing id>-<asset name>-<type>-<YYYY-MM-DD>".
func (t Transaction) Identity(filingID int64) uint32 {
	key := fmt.Sprintf("%d-%s-%s-%s", filingID, t.Asset.Name, t.Type, t.TransactionDate.ISO())
	return crc32.ChecksumIEEE([]byte(key))
}

// TransactionFromMatch parses every captured field of m. The first failing
// field, in row order, fails the whole transaction.
func TransactionFromMatch(m Match) Result[Transaction] {
	asset := ParseAsset(m.Asset)
	if !asset.Success {
		return failFrom[Transaction](asset, "transaction asset could not be created")
	}
	typ := ParseTransactionType(m.Type)
	if !typ.Success {
		return failFrom[Transaction](typ, "transaction type could not be created")
	}
	txDate := ParseDate(m.TransactionDate)
	if !txDate.Success {
		return failFrom[Transaction](txDate, "transaction date could not be created")
	}
	notified := ParseDate(m.NotificationDate)
	if !notified.Success {
		return failFrom[Transaction](notified, "notification date could not be created")
	}
	amount := ParseAmountRange(m.Amount)
	if !amount.Success {
		return failFrom[Transaction](amount, "transaction amount range could not be created")
	}
	status := ParseFilingStatus(m.FilingStatus)
	if !status.Success {
		return failFrom[Transaction](status, "transaction filing status could not be created")
	}

	return Ok(Transaction{
		Asset:            asset.Data,
		Type:             typ.Data,
		TransactionDate:  txDate.Data,
		NotificationDate: notified.Data,
		Amount:           amount.Data,
		FilingStatus:     status.Data,
		SubholdingOf:     m.SubholdingOf,
		Description:      m.Description,
		Comment:          m.Comment,
		RawText:          m.Text,
	})
}

// TransactionsFromBlock parses every row of a transactions block. It is all
// or nothing: one bad row fails the block, the message lists every bad row
// and the kind is that of the first.
func TransactionsFromBlock(block string) Result[[]Transaction] {
	matches := FindTransactionMatches(block)
	if len(matches) == 0 {
		return Fail[[]Transaction](KindNoTransactionsFound, "no transaction matches were found in the transactions block")
	}

	txs := make([]Transaction, 0, len(matches))
	var (
		kind     ErrorKind
		failures []string
	)
	for _, m := range matches {
		r := TransactionFromMatch(m)
		if !r.Success {
			if kind == "" {
				kind = r.Kind
			}
			failures = append(failures, r.Message)
			continue
		}
		txs = append(txs, r.Data)
	}

	if len(failures) > 0 {
		return Fail[[]Transaction](kind, "%d of %d rows failed:\n%s", len(failures), len(matches), strings.Join(failures, "\n"))
	}
	return Ok(txs)
}
