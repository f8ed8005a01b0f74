// Package apperrors defines the caller-facing errors of the service.
// Every failure that leaves the pipeline or a handler is an *AppError, so the HTTP
// layer can render it as {"detail": Message} with StatusCode.
package apperrors

import (
	"errors"
	"net/http"
)

// AppError is a caller-facing error with a stable code, a human-readable message,
// an HTTP status code and an optional internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"detail"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches another AppError by code, so wrapped copies of a sentinel satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the sentinel's code/message/status wrapping internal.
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

// New creates an AppError from a sentinel with a custom message and an internal cause.
func New(sentinel *AppError, message string, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// From returns err as an *AppError, or wraps it in ErrInternal when it is not one.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternal, err)
}

// Processing errors.
var (
	ErrProcessing      = &AppError{Code: "PROCESSING_FAULT", Message: "Failed to process text with LLM", StatusCode: http.StatusBadRequest}
	ErrUpstream        = &AppError{Code: "UPSTREAM_FAULT", Message: "Failed to process text with LLM", StatusCode: http.StatusInternalServerError}
	ErrInvalidTextData = &AppError{Code: "INVALID_TEXT_DATA", Message: "Invalid text data or processing error", StatusCode: http.StatusBadRequest}
)

// Request errors.
var (
	ErrInvalidRequest   = &AppError{Code: "INVALID_REQUEST", Message: "Invalid request", StatusCode: http.StatusUnprocessableEntity}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Not Found", StatusCode: http.StatusNotFound}
	ErrMethodNotAllowed = &AppError{Code: "METHOD_NOT_ALLOWED", Message: "Method Not Allowed", StatusCode: http.StatusMethodNotAllowed}
	ErrRateLimited      = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInternal = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", StatusCode: http.StatusInternalServerError}
)
