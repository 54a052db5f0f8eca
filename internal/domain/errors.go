package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrMalformedRequest indicates that a request URL could not be built.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrParseFatal indicates that the record parser could not recover any
	// usable records from a response stream.
	ErrParseFatal = errors.New("parse failed")
)

// FetchError wraps a transport or read failure in the search or fetch phase.
// The underlying cause is preserved for diagnostics.
type FetchError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// RequestError indicates that a request URL could not be constructed.
type RequestError struct {
	URL   string
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("malformed request %q: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is reports a match for the ErrMalformedRequest sentinel so callers can use
// errors.Is without losing the original cause chain.
func (e *RequestError) Is(target error) bool {
	return target == ErrMalformedRequest
}

// ParseError indicates that the record parser failed fatally.
type ParseError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse failed: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports a match for the ErrParseFatal sentinel.
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFatal
}

// ExternalAPIError provides details about a non-success response from the
// external search/fetch API.
type ExternalAPIError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ExternalAPIError) Unwrap() error {
	return e.Cause
}

// NewFetchError creates a new FetchError.
func NewFetchError(op string, cause error) *FetchError {
	return &FetchError{Op: op, Cause: cause}
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(source string, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
