package models

import (
	"strings"
	"testing"
)

func TestParseCategoryAcceptsAnyCasing(t *testing.T) {
	for _, raw := range []string{"role", "Role", "ROLE", "  role  "} {
		cat, err := ParseCategory(raw)
		if err != nil {
			t.Fatalf("Failed to parse %q: %v", raw, err)
		}
		if cat != CategoryRole {
			t.Errorf("Expected role for %q, got %q", raw, cat)
		}
	}
}

func TestParseCategoryRejectsUnknown(t *testing.T) {
	_, err := ParseCategory("mood")
	if err == nil {
		t.Fatal("Expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "mood") {
		t.Errorf("Expected the rejected value in the error, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "audience") {
		t.Errorf("Expected valid values listed in the error, got %q", err.Error())
	}
}

func TestCategoriesCompositionOrder(t *testing.T) {
	want := []Category{
		CategoryRole, CategoryGoal, CategoryAudience,
		CategoryContext, CategoryOutput, CategoryTone,
	}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %q at position %d, got %q", want[i], i, got[i])
		}
	}
}

func TestCategoryDisplayName(t *testing.T) {
	if got := CategoryAudience.DisplayName(); got != "Target Audience" {
		t.Errorf("Expected 'Target Audience', got %q", got)
	}
	if got := CategoryRole.DisplayName(); got != "Role" {
		t.Errorf("Expected 'Role', got %q", got)
	}
	if got := CategoryTone.Label(); got != "Tone" {
		t.Errorf("Expected 'Tone', got %q", got)
	}
}

func TestCategoryMulti(t *testing.T) {
	multi := map[Category]bool{
		CategoryRole:     false,
		CategoryGoal:     false,
		CategoryAudience: true,
		CategoryContext:  true,
		CategoryOutput:   true,
		CategoryTone:     false,
	}
	for cat, want := range multi {
		if got := cat.Multi(); got != want {
			t.Errorf("Expected Multi()=%v for %q, got %v", want, cat, got)
		}
	}
}
