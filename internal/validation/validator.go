// Package validation provides input validation for element and history
// operations. Checks run at the presentation layer (CLI flags, HTTP
// request bodies, TUI forms) so invalid input never reaches storage.
package validation

import (
	"fmt"
	"strings"

	"github.com/kmowens/promptdeck/internal/errors"
	"github.com/kmowens/promptdeck/internal/models"
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func (r *ValidationResult) addError(field, code, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message})
}

// Error implements the error interface so a failed result can travel as
// a plain error
func (r *ValidationResult) Error() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ToAppError converts a failed result to an AppError, or nil when valid
func (r *ValidationResult) ToAppError() *errors.AppError {
	if r.Valid {
		return nil
	}
	appErr := errors.ValidationError(r.Error())
	for _, e := range r.Errors {
		appErr.WithContext(e.Field, e.Code)
	}
	return appErr
}

// ValidateElement checks the fields of a new or updated element. Title
// and content must be non-blank and the category must be one of the
// known element types.
func ValidateElement(title, category, content string) *ValidationResult {
	result := newResult()

	if strings.TrimSpace(title) == "" {
		result.addError("title", "required", "title is required")
	}
	if strings.TrimSpace(content) == "" {
		result.addError("content", "required", "content is required")
	}
	if _, err := models.ParseCategory(category); err != nil {
		result.addError("type", "invalid_option",
			fmt.Sprintf("type must be one of: %s", models.CategoryNames()))
	}

	return result
}

// ValidateHistoryName checks the name given to a composed prompt before
// it is saved to history.
func ValidateHistoryName(name string) *ValidationResult {
	result := newResult()

	if strings.TrimSpace(name) == "" {
		result.addError("name", "required", "a name is required before saving to history")
	}

	return result
}
