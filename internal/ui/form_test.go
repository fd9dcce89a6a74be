package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmowens/promptdeck/internal/models"
)

func TestElementFormBuildsNewElement(t *testing.T) {
	form := NewElementForm()

	if form.IsEdit() {
		t.Error("Expected a fresh form to not be in edit mode")
	}

	// Title field has initial focus
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Casual")})

	// Tab to the type selector and cycle backwards, wrapping to tone
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyLeft})

	// Tab to the content area and type
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Keep it casual.")})

	elem := form.ToElement()
	if elem.ID != 0 {
		t.Errorf("Expected zero ID for a new element, got %d", elem.ID)
	}
	if elem.Title != "Casual" {
		t.Errorf("Expected title 'Casual', got %q", elem.Title)
	}
	if elem.Category != models.CategoryTone {
		t.Errorf("Expected tone category, got %q", elem.Category)
	}
	if elem.Content != "Keep it casual." {
		t.Errorf("Expected typed content, got %q", elem.Content)
	}
}

func TestElementFormTrimsTitle(t *testing.T) {
	form := NewElementForm()
	form.titleInput.SetValue("  Padded  ")

	if got := form.ToElement().Title; got != "Padded" {
		t.Errorf("Expected trimmed title, got %q", got)
	}
}

func TestElementFormLoadElement(t *testing.T) {
	form := NewElementForm()
	form.LoadElement(models.Element{
		ID:       3,
		Title:    "Engineers",
		Category: models.CategoryAudience,
		Content:  "Senior engineers familiar with Go.",
	})

	if !form.IsEdit() {
		t.Error("Expected form to be in edit mode after loading")
	}

	elem := form.ToElement()
	if elem.ID != 3 {
		t.Errorf("Expected loaded ID to be kept, got %d", elem.ID)
	}
	if elem.Title != "Engineers" || elem.Category != models.CategoryAudience {
		t.Errorf("Unexpected element: %+v", elem)
	}
	if elem.Content != "Senior engineers familiar with Go." {
		t.Errorf("Unexpected content: %q", elem.Content)
	}
}

func TestElementFormEnterAdvancesFields(t *testing.T) {
	form := NewElementForm()

	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if form.focused != elementCategoryField {
		t.Fatalf("Expected focus on the type field, got %d", form.focused)
	}

	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if form.focused != elementContentField {
		t.Fatalf("Expected focus on the content field, got %d", form.focused)
	}

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if form.ToElement().Content != "x" {
		t.Errorf("Expected typing to reach the content area, got %q", form.ToElement().Content)
	}
}

func TestElementFormCategoryCycling(t *testing.T) {
	form := NewElementForm()
	form.Update(tea.KeyMsg{Type: tea.KeyTab})

	categories := models.Categories()
	for i := 1; i < len(categories); i++ {
		form.Update(tea.KeyMsg{Type: tea.KeyRight})
		if got := form.ToElement().Category; got != categories[i] {
			t.Fatalf("Expected %q after %d steps, got %q", categories[i], i, got)
		}
	}

	// One more step wraps back to the first category
	form.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := form.ToElement().Category; got != categories[0] {
		t.Errorf("Expected wrap to %q, got %q", categories[0], got)
	}
}
