package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError for dispatch by the REST error handler.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error with enough context
// for the REST layer to render the envelope's error object.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewValidationError builds a 400 with the given code; per-field detail
// messages are attached separately with WithDetails.
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 400,
	}
}

// NewNotFoundError builds a 404 with the given stable error code.
func NewNotFoundError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 404,
	}
}

// NewRateLimitError builds a 429 carrying a human retryAfter in the message.
func NewRateLimitError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    message,
		Retryable:  true,
		StatusCode: 429,
	}
}

// NewInternalError builds a 500 for programmer invariants and unrecoverable failures.
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Retryable:  false,
		StatusCode: 500,
	}
}

var (
	ErrSessionNotFound  = NewNotFoundError("SESSION_NOT_FOUND", "session not found")
	ErrAnalysisNotReady = NewNotFoundError("ANALYSIS_NOT_READY", "analysis not yet available for session")
)

// Wrap wraps an error with a message using fmt.Errorf with %w.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapWithCode wraps an error in an internal (500) AppError carrying the given code.
func WrapWithCode(err error, code, message string) *AppError {
	appErr := NewInternalError(message).WithCause(err)
	appErr.Code = code
	return appErr
}

// IsType checks if an error is of a specific type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 500
}
