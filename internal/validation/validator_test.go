package validation

import (
	"strings"
	"testing"
)

func TestValidateElementAccepts(t *testing.T) {
	result := ValidateElement("Assistant", "role", "You are a helpful assistant.")
	if !result.Valid {
		t.Errorf("Expected valid result, got errors: %v", result.Errors)
	}
	if result.ToAppError() != nil {
		t.Error("Expected nil AppError for valid result")
	}
}

func TestValidateElementRejectsBlankFields(t *testing.T) {
	result := ValidateElement("  ", "role", "")
	if result.Valid {
		t.Fatal("Expected invalid result for blank title and content")
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}

	appErr := result.ToAppError()
	if appErr == nil {
		t.Fatal("Expected AppError for invalid result")
	}
	if !strings.Contains(appErr.Message, "title is required") {
		t.Errorf("Expected title error in message, got %q", appErr.Message)
	}
}

func TestValidateElementRejectsUnknownCategory(t *testing.T) {
	result := ValidateElement("Assistant", "mood", "content")
	if result.Valid {
		t.Fatal("Expected invalid result for unknown category")
	}
	if result.Errors[0].Field != "type" {
		t.Errorf("Expected error on type field, got %q", result.Errors[0].Field)
	}
	if !strings.Contains(result.Errors[0].Message, "role") {
		t.Errorf("Expected known categories listed, got %q", result.Errors[0].Message)
	}
}

func TestValidateHistoryName(t *testing.T) {
	if result := ValidateHistoryName("my prompt"); !result.Valid {
		t.Errorf("Expected valid result, got errors: %v", result.Errors)
	}
	if result := ValidateHistoryName("   "); result.Valid {
		t.Error("Expected blank name to be rejected")
	}
}
