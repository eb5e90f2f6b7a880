package ptr

import "strconv"

// Report is one parsed disclosure filing.
type Report struct {
	FilingID           int64         `json:"filing_id"`
	RepresentativeName string        `json:"representative_name"`
	SignedDate         Date          `json:"signed_date"`
	Transactions       []Transaction `json:"transactions"`
}

// ReportFromText reads the filing ID and signature from the whole normalized
// document and attaches txs, which keep their document order.
func ReportFromText(cleansed string, txs []Transaction) Result[Report] {
	id := filingIDPattern.FindStringSubmatch(cleansed)
	if id == nil {
		return Fail[Report](KindFilingIDNotFound, "filing ID could not be found in report")
	}
	filingID, err := strconv.ParseInt(id[1], 10, 64)
	if err != nil {
		return Fail[Report](KindFilingIDNotFound, "filing ID %q is not a valid integer: %v", id[1], err)
	}

	sig := signaturePattern.FindStringSubmatch(cleansed)
	if sig == nil {
		return Fail[Report](KindSignatureNotFound, "representative name and signing date could not be found in report")
	}
	signed := ParseDate(sig[signaturePattern.SubexpIndex("date")])
	if !signed.Success {
		return failFrom[Report](signed, "report signing date could not be created")
	}

	return Ok(Report{
		FilingID:           filingID,
		RepresentativeName: sig[signaturePattern.SubexpIndex("name")],
		SignedDate:         signed.Data,
		Transactions:       txs,
	})
}
