package ptr

import "regexp"

// Grammar fragments. Each field type has one source expression here; the
// whole-string form used by its parser and the embedded form used inside the
// transaction head are both compiled from it so the two cannot drift apart.
const (
	// assetSpanExpr matches an asset embedded in a row: lazy text up to the
	// first bracketed tag that lets the rest of the head match.
	assetSpanExpr = `.*?\[.*?\]`

	// assetFieldsExpr splits an asset span into name, optional ticker and tag.
	assetFieldsExpr = `(?P<name>.*?)\s(?:\((?P<ticker>.*)\)\s)?\[(?P<type>.*?)\]`

	typeCodeExpr = `P|S(?:\s*\(partial\))?`
	dateExpr     = `\d{1,2}/\d{1,2}/\d{4}`

	amountSeparatorExpr = `\s-\s`
	groupedDigitsExpr   = `[\d,]*`

	filingStatusMarkerExpr = `F\sS:\s`
	subholdingMarkerExpr   = `S\sO:`
	commentMarkerExpr      = `C:`
	descriptionMarkerExpr  = `D:`

	tableHeaderExpr = `ID\s+Owner\s+Asset\s+Transaction\s+Type\s+Date\s+Notification\s+Date\s+Amount\s+Cap\.\s+Gains\s+>\s+\$200\?`
	tableFooterExpr = `\* For the complete list of asset type`
	filingIDExpr    = `Filing ID #(\d+)`
)

func moneyExpr(digits string) string { return `\$` + digits }

var (
	amountSpanExpr   = moneyExpr(groupedDigitsExpr) + amountSeparatorExpr + moneyExpr(groupedDigitsExpr)
	amountFieldsExpr = moneyExpr(`(?P<min>\d+)`) + amountSeparatorExpr + moneyExpr(`(?P<max>\d+)`)

	headExpr = `(?s)^\s*(?P<asset>` + assetSpanExpr + `)` + headRestExpr

	// headTailExpr is the part of a head from the closing bracket of the
	// asset tag onwards.
	headTailExpr = `^\]` + headRestExpr

	headRestExpr = `\s*(?P<type>` + typeCodeExpr + `)` +
		`\s*(?P<transaction_date>` + dateExpr + `)` +
		`\s*(?P<notification_date>` + dateExpr + `)` +
		`\s*(?P<amount>` + amountSpanExpr + `)` +
		`\s*` + filingStatusMarkerExpr

	signatureExpr = `(?s)Signed:\sHon\.\s(?P<name>.+?)\s,\s(?P<date>` + dateExpr + `)`
)

var (
	assetFieldsPattern  = regexp.MustCompile(`(?s)` + assetFieldsExpr)
	datePattern         = regexp.MustCompile(`^(?:` + dateExpr + `)$`)
	amountFieldsPattern = regexp.MustCompile(amountFieldsExpr)
	headPattern         = regexp.MustCompile(headExpr)
	headTailPattern     = regexp.MustCompile(headTailExpr)

	tableHeaderPattern    = regexp.MustCompile(tableHeaderExpr)
	tableFooterPattern    = regexp.MustCompile(tableFooterExpr)
	filingIDPattern       = regexp.MustCompile(filingIDExpr)
	filingIDTokenPattern  = regexp.MustCompile(`\s*` + filingIDExpr + `\s*`)
	signaturePattern      = regexp.MustCompile(signatureExpr)
	whitespaceRunsPattern = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
)

// annotation is one of the optional "<marker> <text>" groups trailing a row.
type annotation struct {
	name string
	// stop matches the marker directly at a position, used as a lookahead by
	// free text that precedes it.
	stop *regexp.Regexp
	// open consumes the marker together with surrounding whitespace.
	open *regexp.Regexp
}

func newAnnotation(name, marker string) annotation {
	return annotation{
		name: name,
		stop: regexp.MustCompile(`^` + marker),
		open: regexp.MustCompile(`^\s*` + marker + `\s*`),
	}
}

var (
	subholdingAnnotation  = newAnnotation("subholding_of", subholdingMarkerExpr)
	commentAnnotation     = newAnnotation("comment", commentMarkerExpr)
	descriptionAnnotation = newAnnotation("description", descriptionMarkerExpr)
)

// trailers lists the optional groups in their canonical order, each with the
// markers that end its free text (besides a new row or end of input).
var trailers = []struct {
	annotation
	stops []annotation
}{
	{subholdingAnnotation, []annotation{descriptionAnnotation, commentAnnotation}},
	{commentAnnotation, []annotation{descriptionAnnotation}},
	{descriptionAnnotation, []annotation{commentAnnotation}},
}

// filingStatusStops ends the filing status text.
var filingStatusStops = []annotation{subholdingAnnotation, descriptionAnnotation, commentAnnotation}
