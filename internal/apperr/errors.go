// Package apperr provides the structured error type shared by repositories and
// HTTP handlers.
package apperr

import "net/http"

// Code is a machine-readable error code. It is written to the "error" field of
// every error response.
type Code string

const (
	CodeNotFound    Code = "not_found"
	CodeConflict    Code = "conflict"
	CodeValidation  Code = "validation_error"
	CodeInvalidJSON Code = "invalid_json"
	CodeRateLimited Code = "too_many_requests"
	CodeUnexpected  Code = "unexpected_error"
)

// HTTPStatus maps a code to the status code returned to clients.
// Conflicts surface as 400 to keep the existing API contract.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidJSON:
		return http.StatusBadRequest
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a problem with a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	Details []FieldError
	Cause   error
}

// Sentinels for errors.Is checks; matching is by code only.
var (
	ErrNotFound   = &Error{Code: CodeNotFound}
	ErrConflict   = &Error{Code: CodeConflict}
	ErrValidation = &Error{Code: CodeValidation}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NotFound reports that no record matched the requested id.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Conflict reports that a record with the same id already exists.
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// Validation reports one or more field problems.
func Validation(details ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: "request validation failed", Details: details}
}
