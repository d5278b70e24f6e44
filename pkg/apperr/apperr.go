// Package apperr defines the closed error taxonomy used across the pipeline.
// Handlers never inspect error message strings; they map the kind carried on
// the error to an HTTP status at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary and for retry policy.
type Kind string

const (
	// KindValidation: missing or malformed required field. 400, not retried.
	KindValidation Kind = "VALIDATION"
	// KindAuth: missing, invalid or revoked credential. 401, the user must
	// re-authenticate rather than retry.
	KindAuth Kind = "AUTH"
	// KindUpstream: the mail provider or the LLM rejected or failed a call.
	// Retried only by the outer notification delivery, never in-process.
	KindUpstream Kind = "UPSTREAM"
	// KindPersistence: a store write failed and the unit of work aborted.
	KindPersistence Kind = "PERSISTENCE"
	// KindNotFound: the referenced record does not exist for this user.
	KindNotFound Kind = "NOT_FOUND"
)

// Error codes for the named failure conditions of the pipeline.
const (
	CodeTokenUnavailable = "TOKEN_UNAVAILABLE"
	CodeRefreshFailed    = "REFRESH_FAILED"
	CodeFetchFailed      = "FETCH_FAILED"
	CodeMalformedVerdict = "MALFORMED_VERDICT"
	CodeLLMFailed        = "LLM_CALL_FAILED"
	CodeHistoryFailed    = "HISTORY_LIST_FAILED"
	CodeDraftFailed      = "DRAFT_GENERATION_FAILED"
	CodeWatchFailed      = "WATCH_SETUP_FAILED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeNotFound         = "NOT_FOUND"
)

// Error is the single error type crossing component boundaries.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// UpstreamStatus carries the provider/LLM HTTP status when relevant.
	UpstreamStatus int
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the kind to a response status. The single place where
// error kinds become status codes.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func MissingField(field string) *Error {
	return &Error{Kind: KindValidation, Code: CodeBadRequest, Message: fmt.Sprintf("missing required field: %s", field)}
}

func Auth(code, message string) *Error {
	return &Error{Kind: KindAuth, Code: code, Message: message}
}

func Upstream(code, message string, status int, err error) *Error {
	return &Error{Kind: KindUpstream, Code: code, Message: message, UpstreamStatus: status, Err: err}
}

func Persistence(operation string, err error) *Error {
	return &Error{Kind: KindPersistence, Code: CodeDatabaseError, Message: fmt.Sprintf("store operation failed: %s", operation), Err: err}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// KindOf extracts the kind from any error chain; unknown errors are treated
// as persistence-grade internal failures.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

// StatusOf returns the HTTP status for any error chain.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// IsCode reports whether the chain contains an *Error with the given code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
