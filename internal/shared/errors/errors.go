package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

// Messages returned to clients. These strings are part of the public API.
const (
	MsgInvalidProjectID   = "Invalid project ID."
	MsgProjectNotFound    = "Project not found."
	MsgInvalidRequestBody = "Invalid request body."
	MsgInternalServer     = "Internal Server Error"
	MsgInvalidLimit       = "Invalid limit."
	MsgHistoryUnavailable = "Change history unavailable."
)

// Common application errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidProjectID = errors.New("invalid project ID")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// Body is the JSON payload written for this error. Clients only ever see the
// message under the "error" key.
func (e *AppError) Body() map[string]string {
	return map[string]string{"error": e.Message}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// NewInvalidProjectIDError reports a malformed :id path segment.
func NewInvalidProjectIDError() *AppError {
	return NewValidationError(MsgInvalidProjectID).
		WithCode("INVALID_IDENTIFIER").
		WithCause(ErrInvalidProjectID)
}

// NewProjectNotFoundError reports a well-formed id that matches no project.
// The original service answers 400 rather than 404 and clients depend on it.
func NewProjectNotFoundError(cause error) *AppError {
	return NewAppError(ErrorTypeNotFound, MsgProjectNotFound, http.StatusBadRequest).
		WithCode("PROJECT_NOT_FOUND").
		WithCause(cause)
}

// NewInvalidBodyError reports a request body that could not be decoded.
func NewInvalidBodyError(cause error) *AppError {
	return NewValidationError(MsgInvalidRequestBody).
		WithCode("INVALID_BODY").
		WithCause(cause)
}

// NewInvalidLimitError reports a limit query parameter that is not a positive integer.
func NewInvalidLimitError(cause error) *AppError {
	return NewValidationError(MsgInvalidLimit).
		WithCode("INVALID_LIMIT").
		WithCause(cause)
}

// NewHistoryUnavailableError reports that the change stream could not be read.
func NewHistoryUnavailableError(cause error) *AppError {
	return NewAppError(ErrorTypeInternal, MsgHistoryUnavailable, http.StatusServiceUnavailable).
		WithCode("HISTORY_UNAVAILABLE").
		WithCause(cause)
}

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound)
}
