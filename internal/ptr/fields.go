package ptr

import (
	"strconv"
	"strings"
)

// Asset is the security a transaction was made in.
type Asset struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Ticker *string `json:"ticker,omitempty"`
}

// ParseAsset splits "<name> [<type>]", optionally with "(<ticker>) " before
// the bracketed type tag.
func ParseAsset(text string) Result[Asset] {
	m := assetFieldsPattern.FindStringSubmatch(text)
	if m == nil {
		return Fail[Asset](KindAssetFormatError, "asset attributes could not be extracted from %q", text)
	}

	asset := Asset{
		Name: m[assetFieldsPattern.SubexpIndex("name")],
		Type: m[assetFieldsPattern.SubexpIndex("type")],
	}
	if i := assetFieldsPattern.SubexpIndex("ticker"); m[i] != "" {
		ticker := m[i]
		asset.Ticker = &ticker
	}
	return Ok(asset)
}

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	Purchase    TransactionType = "purchase"
	Sale        TransactionType = "sale"
	PartialSale TransactionType = "partial sale"
)

var transactionTypeCodes = map[string]TransactionType{
	"P":           Purchase,
	"S":           Sale,
	"S (partial)": PartialSale,
}

// ParseTransactionType maps a disclosure type code to its TransactionType.
func ParseTransactionType(code string) Result[TransactionType] {
	t, ok := transactionTypeCodes[code]
	if !ok {
		return Fail[TransactionType](KindUnknownTransactionType, "transaction type %q not recognized", code)
	}
	return Ok(t)
}

// Code renders t as it appears on a disclosure.
func (t TransactionType) Code() string {
	switch t {
	case Purchase:
		return "P"
	case Sale:
		return "S"
	case PartialSale:
		return "S (partial)"
	default:
		return ""
	}
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t.Code() != ""
}

// FilingStatus is the status printed after "F S:" on each row.
type FilingStatus string

const FilingStatusNew FilingStatus = "new"

// ParseFilingStatus recognises the literal text "New" only.
func ParseFilingStatus(text string) Result[FilingStatus] {
	if text != "New" {
		return Fail[FilingStatus](KindUnknownFilingStatus, "filing status %q not recognized", text)
	}
	return Ok(FilingStatusNew)
}

// AmountRange is the disclosed dollar bracket of a transaction. Min <= Max is
// not enforced; see Ordered.
type AmountRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// ParseAmountRange parses "$<min> - $<max>". Thousands separators are dropped
// before conversion.
func ParseAmountRange(text string) Result[AmountRange] {
	plain := strings.ReplaceAll(text, ",", "")
	m := amountFieldsPattern.FindStringSubmatch(plain)
	if m == nil {
		return Fail[AmountRange](KindAmountFormatError, "amount range attributes could not be extracted from %q", text)
	}

	lo, err := strconv.ParseInt(m[amountFieldsPattern.SubexpIndex("min")], 10, 64)
	if err != nil {
		return Fail[AmountRange](KindAmountFormatError, "amount range minimum in %q: %v", text, err)
	}
	hi, err := strconv.ParseInt(m[amountFieldsPattern.SubexpIndex("max")], 10, 64)
	if err != nil {
		return Fail[AmountRange](KindAmountFormatError, "amount range maximum in %q: %v", text, err)
	}
	return Ok(AmountRange{Min: lo, Max: hi})
}

// Ordered reports whether Min <= Max.
func (a AmountRange) Ordered() bool {
	return a.Min <= a.Max
}

// String renders the range the way disclosures print it.
func (a AmountRange) String() string {
	return "$" + groupThousands(a.Min) + " - $" + groupThousands(a.Max)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
