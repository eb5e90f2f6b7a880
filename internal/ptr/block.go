package ptr

import "strings"

// ExtractTransactionsBlock returns the part of a normalized document holding
// only transaction rows: everything after the first table header and before
// the first footer, with repeated page headers and stray filing ID tokens
// removed.
func ExtractTransactionsBlock(cleansed string) Result[string] {
	first := tableHeaderPattern.FindStringIndex(cleansed)
	if first == nil {
		return Fail[string](KindNoHeaderFound, "no match was found for the table header")
	}

	rest := cleansed[first[1]:]
	rest = tableHeaderPattern.ReplaceAllLiteralString(rest, "")

	footer := tableFooterPattern.FindStringIndex(rest)
	if footer == nil {
		return Fail[string](KindNoFooterFound, "no match was found for the table footer")
	}
	rest = rest[:footer[0]]

	// The filing ID printed at the top of the first page sometimes lands
	// inside the table once pages are joined.
	rest = filingIDTokenPattern.ReplaceAllLiteralString(rest, " ")
	return Ok(strings.TrimSpace(rest))
}
