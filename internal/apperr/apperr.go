// Package apperr carries structured service errors up to the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation           Code = "VALIDATION_FAILED"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeNotFound             Code = "NOT_FOUND"
	CodeDuplicatePhone       Code = "DUPLICATE_PHONE"
	CodeUploadRejected       Code = "UPLOAD_REJECTED"
	CodeStorageFailed        Code = "STORAGE_FAILED"
	CodeAssistantUnavailable Code = "ASSISTANT_UNAVAILABLE"
	CodeInternal             Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:           http.StatusBadRequest,
	CodeUnauthorized:         http.StatusUnauthorized,
	CodeForbidden:            http.StatusForbidden,
	CodeNotFound:             http.StatusNotFound,
	CodeDuplicatePhone:       http.StatusBadRequest,
	CodeUploadRejected:       http.StatusBadRequest,
	CodeStorageFailed:        http.StatusInternalServerError,
	CodeAssistantUnavailable: http.StatusInternalServerError,
	CodeInternal:             http.StatusInternalServerError,
}

// Error is a service failure with a user-facing message. Details and the
// wrapped cause are for logs only.
type Error struct {
	Code      Code      `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status maps the code to an HTTP status.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New builds an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Timestamp: time.Now().UTC()}
}

// Wrap builds an Error around cause.
func Wrap(code Code, message string, cause error) *Error {
	e := New(code, message)
	e.cause = cause
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func Validation(message string) *Error   { return New(CodeValidation, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }

// Storage reports a persistence failure without leaking its details.
func Storage(err error) *Error {
	return Wrap(CodeStorageFailed, "Storage unavailable", err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
