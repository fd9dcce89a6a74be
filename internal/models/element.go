package models

import (
	"fmt"
	"strings"
)

// Category classifies a prompt element. The set is closed: prompts are
// assembled from these six sections, always in the order returned by
// Categories.
type Category string

const (
	CategoryRole     Category = "role"
	CategoryGoal     Category = "goal"
	CategoryAudience Category = "audience"
	CategoryContext  Category = "context"
	CategoryOutput   Category = "output"
	CategoryTone     Category = "tone"
)

// Categories returns every category in composition order.
func Categories() []Category {
	return []Category{
		CategoryRole,
		CategoryGoal,
		CategoryAudience,
		CategoryContext,
		CategoryOutput,
		CategoryTone,
	}
}

// ParseCategory validates a raw category value, accepting any casing.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (expected one of: %s)", s, CategoryNames())
}

// CategoryNames returns the valid category values as a comma-separated list,
// for error messages and CLI help.
func CategoryNames() string {
	names := make([]string, 0, 6)
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// Label is the section heading used in composed prompts ("Role:", "Tone:").
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// DisplayName is the heading shown by the builder UI. It matches Label
// except for audience, which reads better spelled out.
func (c Category) DisplayName() string {
	if c == CategoryAudience {
		return "Target Audience"
	}
	return c.Label()
}

// Multi reports whether the builder offers this category as a multi-pick
// section. Audience, context and output accept several fragments; role, goal
// and tone take exactly one.
func (c Category) Multi() bool {
	switch c {
	case CategoryAudience, CategoryContext, CategoryOutput:
		return true
	}
	return false
}

// Element is a reusable prompt fragment.
//
// ID is a session-scoped surrogate identity assigned by the element
// repository: monotonically increasing, never reused within a process, and
// never written to disk. Mutations address elements by ID so that a stale
// view can no longer clobber whatever row happens to occupy an old position.
type Element struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
}

// FilterValue makes Element usable with list filtering and fuzzy search.
func (e Element) FilterValue() string {
	return e.Title
}
