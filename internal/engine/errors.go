package engine

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by Generate when no credential is set. The
// caller gets it immediately, before any network activity.
var ErrNotConfigured = errors.New("generation gateway not configured: missing API key")

// errEmptyCompletion marks a well-formed response whose completion text is
// empty after trimming. It re-enters the retry loop like any other failure.
var errEmptyCompletion = errors.New("empty completion from model")

// APIError is a failure reported by the generation service. Message carries
// the server's own error text when one was supplied.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP status %d", e.StatusCode)
}

// ParseError is a completion that could not be coerced into JSON by any
// recovery strategy. Raw holds the offending text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "failed to parse JSON response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
