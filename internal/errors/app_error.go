package errors

import "fmt"

// AppError represents a domain-specific error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports malformed or out-of-order input. Detectors
// require chronologically sorted streams and fail fast on violations.
func NewValidationError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewConfigError reports missing or inconsistent threshold configuration.
// Config errors are fatal and are surfaced before any detector runs.
func NewConfigError(message string) *AppError {
	return &AppError{Code: "CONFIGURATION_ERROR", Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}
