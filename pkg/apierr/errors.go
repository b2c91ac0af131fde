// Package apierr holds the errors returned by the HTTP layer of the weather API
// wrapper. Callers check the kind of failure with errors.Is against the
// sentinels and reach for details with errors.As on the typed errors.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API interaction failures.
var (
	// ErrAPICall is the generic failure for a call the API did not serve.
	ErrAPICall = errors.New("api call failed")

	// ErrUnauthorized indicates the API rejected the credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested entity does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrBadGateway indicates an upstream gateway failure (HTTP 502).
	// It is also an ErrAPICall.
	ErrBadGateway = fmt.Errorf("bad gateway: %w", ErrAPICall)

	// ErrParseResponse indicates the response body is not valid JSON.
	ErrParseResponse = errors.New("cannot parse response")
)

// StatusError represents a non-2xx HTTP status returned by the API.
type StatusError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	text := http.StatusText(e.StatusCode)
	if text == "" {
		text = "unknown status"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d %s", e.kind(), e.StatusCode, text)
	}
	return fmt.Sprintf("%s: HTTP %d %s: %s", e.kind(), e.StatusCode, text, e.Message)
}

func (e *StatusError) Unwrap() error { return e.kind() }

func (e *StatusError) kind() error {
	if e.Kind == nil {
		return ErrAPICall
	}
	return e.Kind
}

// RequestError represents a call that never produced an HTTP response.
type RequestError struct {
	Method string
	URI    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrAPICall, e.Method, e.URI, e.Err)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAPICall}
	}
	return []error{ErrAPICall, e.Err}
}

// ParseError represents a response body that could not be decoded.
type ParseError struct {
	// Snippet is a trimmed prefix of the offending body.
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Err != nil && e.Snippet != "":
		return fmt.Sprintf("%s: %v (body: %s)", ErrParseResponse, e.Err, e.Snippet)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrParseResponse, e.Err)
	default:
		return ErrParseResponse.Error()
	}
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParseResponse}
	}
	return []error{ErrParseResponse, e.Err}
}

// StatusCode reports the HTTP status carried by err, or 0 when err does not
// come from a non-2xx response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
