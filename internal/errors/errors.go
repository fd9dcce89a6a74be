// Package errors provides unified error handling across the promptdeck
// interfaces (CLI, HTTP, TUI). It defines structured application errors
// with codes, categories and severities so each surface can decide how
// to present a failure without re-inspecting its cause.
//
// Create errors with the constructor functions (ValidationError,
// NotFoundError, ...), add call-site context with Wrap, and recover the
// structured form with GetAppError.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Composition errors: a selection referenced an element title that
	// no longer exists in the element table
	ErrCodeLookupFailed ErrorCode = "LOOKUP_FAILED"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	// Service errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryResource   ErrorCategory = "resource"
	CategoryLookup     ErrorCategory = "lookup"
	CategoryStorage    ErrorCategory = "storage"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// categorizeError maps an error code to its category and severity
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidFormat:
		return CategoryValidation, SeverityWarning
	case ErrCodeNotFound, ErrCodeAlreadyExists:
		return CategoryResource, SeverityError
	case ErrCodeLookupFailed:
		return CategoryLookup, SeverityCritical
	case ErrCodeStorageFailure, ErrCodeFileCorrupted:
		return CategoryStorage, SeverityCritical
	default:
		return CategorySystem, SeverityError
	}
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

// MissingFieldError creates an error for a required field left blank
func MissingFieldError(field string) *AppError {
	return NewAppError(ErrCodeMissingField, fmt.Sprintf("%s is required", field)).
		WithContext("field", field)
}

// InvalidInputError creates an error for malformed user input
func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

// NotFoundError creates an error for a missing resource
func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource)
}

// LookupError creates an error for a composition that references an
// element title absent from the element table
func LookupError(category, title string) *AppError {
	return NewAppError(ErrCodeLookupFailed,
		fmt.Sprintf("no %s element titled %q", category, title)).
		WithContext("category", category).
		WithContext("title", title)
}

// StorageError creates a storage error wrapping its cause
func StorageError(message string, cause error) *AppError {
	appErr := NewAppError(ErrCodeStorageFailure, message)
	appErr.Cause = cause
	return appErr
}

// InternalError creates an internal error wrapping its cause
func InternalError(message string, cause error) *AppError {
	appErr := NewAppError(ErrCodeInternalError, message)
	appErr.Cause = cause
	return appErr
}

// Wrap wraps an existing error with an application error code. A nil
// err yields nil so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// IsAppError reports whether err is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from err, converting plain errors to
// an internal AppError so handlers always have the structured form
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return &AppError{
		Code:      ErrCodeInternalError,
		Message:   err.Error(),
		Severity:  SeverityError,
		Category:  CategorySystem,
		Cause:     err,
		Timestamp: time.Now(),
	}
}

// IsCode reports whether err is an AppError carrying the given code
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
