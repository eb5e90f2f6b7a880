package ptr

import "strings"

// Normalize drops NUL bytes left behind by PDF text extraction and collapses
// every whitespace run to a single space. Whitespace is the Unicode set:
// newlines, vertical tabs, no-break and other separator spaces included.
func Normalize(raw string) string {
	return whitespaceRunsPattern.ReplaceAllLiteralString(strings.ReplaceAll(raw, "\x00", ""), " ")
}

// JoinPages joins page texts with a space and normalizes the result.
func JoinPages(pages []string) string {
	return Normalize(strings.Join(pages, " "))
}
