// Package domain defines the core types, interfaces, and errors of the
// query explorer: filter state, schema-free rows, query results and the
// table/chart state derived from them.
package domain

import (
	"errors"
	"fmt"
)

// GenericQueryFailure is shown when a failed execution carries no backend detail.
const GenericQueryFailure = "Failed to execute query. Please try again."

// ErrBusy is returned when an execution is requested while another is loading.
var ErrBusy = errors.New("query execution already in progress")

// ErrStale is returned for a completion superseded by a newer execution.
var ErrStale = errors.New("query result superseded by a newer execution")

// ErrNoParams is returned when a URL-triggered execution finds nothing to run.
var ErrNoParams = errors.New("location carries no query parameters")

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TransportError indicates the query endpoint could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "execute request: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the query endpoint. Detail holds the
// backend-provided message when the body carried one.
type APIError struct {
	HTTPStatus int
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Body
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.HTTPStatus, msg)
}

// MalformedResponseError indicates a response body that could not be decoded.
type MalformedResponseError struct {
	Message string
}

func (e *MalformedResponseError) Error() string { return "malformed response: " + e.Message }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrMalformed creates a MalformedResponseError with a formatted message.
func ErrMalformed(format string, args ...interface{}) *MalformedResponseError {
	return &MalformedResponseError{Message: fmt.Sprintf(format, args...)}
}

// UserMessage returns the banner text for a failed execution: the backend
// detail when one was provided, otherwise a generic message.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return GenericQueryFailure
}

// IsUpstreamError reports whether err came from talking to the query endpoint.
func IsUpstreamError(err error) bool {
	var (
		transport *TransportError
		apiErr    *APIError
		malformed *MalformedResponseError
	)
	return errors.As(err, &transport) || errors.As(err, &apiErr) || errors.As(err, &malformed)
}
