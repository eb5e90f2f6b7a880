// Package errors provides the structured error type returned by services and
// rendered by HTTP handlers. Clients only ever see Code and Message; the
// wrapped internal error is for logs.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"ptrwatch/internal/ptr"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// FromParseError maps a failed parse to ErrUnparseableReport. The parse kind
// leads the message so clients can tell failures apart. Errors that are not
// parse failures become ErrInternalServer.
func FromParseError(err error) *AppError {
	var perr *ptr.ParseError
	if !stderrors.As(err, &perr) {
		return Wrap(ErrInternalServer, err)
	}
	e := WithMessage(ErrUnparseableReport, fmt.Sprintf("%s: %s", perr.Kind, perr.Message))
	e.Internal = err
	return e
}

// Authentication errors.
var (
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline API key is not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Report errors.
var (
	ErrReportNotFound    = &AppError{Code: "REPORT_NOT_FOUND", Message: "Report not found", StatusCode: http.StatusNotFound}
	ErrUnparseableReport = &AppError{Code: "UNPARSEABLE_REPORT", Message: "Report could not be parsed", StatusCode: http.StatusUnprocessableEntity}
)

// Ingest errors.
var (
	ErrIngestRunNotFound   = &AppError{Code: "INGEST_RUN_NOT_FOUND", Message: "Ingest run not found", StatusCode: http.StatusNotFound}
	ErrUpstreamUnavailable = &AppError{Code: "UPSTREAM_UNAVAILABLE", Message: "Disclosure site could not be reached", StatusCode: http.StatusBadGateway}
)
