// Package ptr parses the extracted text of House Periodic Transaction Report
// (PTR) disclosures into reports and transactions.
//
// Every stage returns a Result instead of panicking or returning a bare error:
// malformed documents are expected input, and callers need both the failure
// kind (for metrics and persistence) and a human-readable message.
package ptr

import "fmt"

// ErrorKind classifies a parse failure.
type ErrorKind string

const (
	KindNoHeaderFound          ErrorKind = "NO_HEADER_FOUND"
	KindNoFooterFound          ErrorKind = "NO_FOOTER_FOUND"
	KindNoTransactionsFound    ErrorKind = "NO_TRANSACTIONS_FOUND"
	KindAssetFormatError       ErrorKind = "ASSET_FORMAT_ERROR"
	KindUnknownTransactionType ErrorKind = "UNKNOWN_TRANSACTION_TYPE"
	KindDateFormatError        ErrorKind = "DATE_FORMAT_ERROR"
	KindAmountFormatError      ErrorKind = "AMOUNT_FORMAT_ERROR"
	KindUnknownFilingStatus    ErrorKind = "UNKNOWN_FILING_STATUS"
	KindFilingIDNotFound       ErrorKind = "FILING_ID_NOT_FOUND"
	KindSignatureNotFound      ErrorKind = "SIGNATURE_NOT_FOUND"
	KindEmptyExtraction        ErrorKind = "EMPTY_EXTRACTION"
	KindUnreadableDocument     ErrorKind = "UNREADABLE_DOCUMENT"
)

// ParseError is the error form of a failed Result.
type ParseError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is a *ParseError of the same kind, so callers can
// write errors.Is(err, ptr.ErrNoFooterFound).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNoHeaderFound          = &ParseError{Kind: KindNoHeaderFound}
	ErrNoFooterFound          = &ParseError{Kind: KindNoFooterFound}
	ErrNoTransactionsFound    = &ParseError{Kind: KindNoTransactionsFound}
	ErrAssetFormat            = &ParseError{Kind: KindAssetFormatError}
	ErrUnknownTransactionType = &ParseError{Kind: KindUnknownTransactionType}
	ErrDateFormat             = &ParseError{Kind: KindDateFormatError}
	ErrAmountFormat           = &ParseError{Kind: KindAmountFormatError}
	ErrUnknownFilingStatus    = &ParseError{Kind: KindUnknownFilingStatus}
	ErrFilingIDNotFound       = &ParseError{Kind: KindFilingIDNotFound}
	ErrSignatureNotFound      = &ParseError{Kind: KindSignatureNotFound}
	ErrEmptyExtraction        = &ParseError{Kind: KindEmptyExtraction}
	ErrUnreadableDocument     = &ParseError{Kind: KindUnreadableDocument}
)

// Result carries the outcome of one parsing stage. Message and Kind are empty
// iff Success is true; Data is only meaningful when Success is true.
type Result[T any] struct {
	Success bool
	Kind    ErrorKind
	Message string
	Data    T
}

// Ok wraps a successfully parsed value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed result of the given kind.
func Fail[T any](kind ErrorKind, format string, args ...any) Result[T] {
	return Result[T]{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// failFrom re-wraps a failed result of another type, prefixing its message.
func failFrom[T, U any](r Result[U], prefix string) Result[T] {
	return Result[T]{Kind: r.Kind, Message: prefix + ": " + r.Message}
}

// Err returns nil on success and a *ParseError otherwise.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &ParseError{Kind: r.Kind, Message: r.Message}
}

// Unwrap converts the result into Go's (value, error) form.
func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err()
}
