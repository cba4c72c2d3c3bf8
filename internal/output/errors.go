package output

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code       string
	Message    string
	Hint       string
	HTTPStatus int
	Retryable  bool
	Cause      error

	// Data carries the structured payload of a declared server failure.
	Data json.RawMessage
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

func ErrNotFound(resource, identifier string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

func ErrAuth(msg string) *Error {
	return &Error{
		Code:    CodeAuth,
		Message: msg,
		Hint:    "Run: chino auth login",
	}
}

func ErrForbidden(msg string) *Error {
	return &Error{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: 403,
	}
}

// ErrTransport wraps a network, timeout, or unparseable-response failure.
// Transport faults are never attributable to request content, so callers
// may retry them.
func ErrTransport(cause error) *Error {
	return &Error{
		Code:      CodeTransport,
		Message:   "Transport fault",
		Hint:      cause.Error(),
		Retryable: true,
		Cause:     cause,
	}
}

// ErrAPI represents a server response with result "error": the request was
// understood and rejected, with a caller-correctable message.
func ErrAPI(status int, msg string) *Error {
	return &Error{
		Code:       CodeAPI,
		Message:    msg,
		HTTPStatus: status,
	}
}

// ErrFail represents a server response with result "fail": an explicit
// server-side failure carrying a structured data payload.
func ErrFail(status int, data json.RawMessage) *Error {
	return &Error{
		Code:       CodeFail,
		Message:    fmt.Sprintf("Server declared failure (HTTP %d)", status),
		HTTPStatus: status,
		Data:       data,
	}
}

// ErrPrecondition is a client-side guard failure detected before any
// network call was made.
func ErrPrecondition(msg string) *Error {
	return &Error{Code: CodePrecondition, Message: msg}
}

// ErrIntegrity reports a digest mismatch between the locally accumulated
// hash and the server-reported hash at upload commit. The remote object
// must be treated as an unreliable upload, not usable data.
func ErrIntegrity(local, remote string) *Error {
	return &Error{
		Code:    CodeIntegrity,
		Message: "Uploaded blob failed integrity check",
		Hint:    fmt.Sprintf("local sha1 %s, server reported %s", local, remote),
	}
}

// AsError attempts to convert an error to an *Error. A nil error
// stays nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    CodeAPI,
		Message: err.Error(),
		Cause:   err,
	}
}
