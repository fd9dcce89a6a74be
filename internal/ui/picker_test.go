package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmowens/promptdeck/internal/models"
)

func pickerElements() []models.Element {
	return []models.Element{
		{ID: 1, Title: "Assistant", Category: models.CategoryRole, Content: "You are a helpful assistant."},
		{ID: 2, Title: "Reviewer", Category: models.CategoryRole, Content: "You review code."},
		{ID: 3, Title: "Brief", Category: models.CategoryOutput, Content: "Keep it short."},
		{ID: 4, Title: "Detailed", Category: models.CategoryOutput, Content: "Give exhaustive detail."},
		{ID: 5, Title: "Table", Category: models.CategoryOutput, Content: "Answer as a table."},
	}
}

func TestSectionPickerSingleSelect(t *testing.T) {
	picker := NewSectionPicker(models.CategoryRole, pickerElements(), models.Selection{})

	if picker.multi {
		t.Fatal("Expected role picker to be single-pick")
	}
	if len(picker.titles) != 2 {
		t.Fatalf("Expected 2 role titles, got %d", len(picker.titles))
	}

	// Move past skip and write-your-own onto the first title
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !picker.IsSubmitted() {
		t.Fatal("Expected picker to be submitted")
	}
	sel := picker.Selection()
	if sel.Skip || sel.Multi || sel.Custom {
		t.Errorf("Unexpected selection flags: %+v", sel)
	}
	if len(sel.Titles) != 1 || sel.Titles[0] != "Assistant" {
		t.Errorf("Expected title reference to Assistant, got %+v", sel.Titles)
	}
}

func TestSectionPickerSkip(t *testing.T) {
	picker := NewSectionPicker(models.CategoryGoal, pickerElements(), models.Selection{})

	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !picker.IsSubmitted() {
		t.Fatal("Expected picker to be submitted")
	}
	if !picker.Selection().Skip {
		t.Errorf("Expected skip selection, got %+v", picker.Selection())
	}
	if !picker.Selection().Empty() {
		t.Error("Expected skip selection to compose as empty")
	}
}

func TestSectionPickerMultiTogglePreservesPickOrder(t *testing.T) {
	picker := NewSectionPicker(models.CategoryOutput, pickerElements(), models.Selection{})

	if !picker.multi {
		t.Fatal("Expected output picker to be multi-pick")
	}

	// Space on the skip row must not register a pick
	picker.Update(tea.KeyMsg{Type: tea.KeySpace})
	if len(picker.picks) != 0 {
		t.Fatalf("Expected no picks after space on skip, got %v", picker.picks)
	}

	// Toggle Detailed first, then Brief
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeySpace})
	picker.Update(tea.KeyMsg{Type: tea.KeyUp})
	picker.Update(tea.KeyMsg{Type: tea.KeySpace})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !picker.IsSubmitted() {
		t.Fatal("Expected picker to be submitted")
	}
	sel := picker.Selection()
	if !sel.Multi {
		t.Error("Expected multi-shaped selection")
	}
	if len(sel.Titles) != 2 || sel.Titles[0] != "Detailed" || sel.Titles[1] != "Brief" {
		t.Errorf("Expected titles in pick order [Detailed Brief], got %v", sel.Titles)
	}
}

func TestSectionPickerMultiToggleOff(t *testing.T) {
	picker := NewSectionPicker(models.CategoryOutput, pickerElements(), models.Selection{})

	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeySpace})
	picker.Update(tea.KeyMsg{Type: tea.KeySpace})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(picker.Selection().Titles) != 0 {
		t.Errorf("Expected toggled-off pick to be dropped, got %v", picker.Selection().Titles)
	}
}

func TestSectionPickerCustomText(t *testing.T) {
	picker := NewSectionPicker(models.CategoryRole, nil, models.Selection{})

	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !picker.EditingCustom() {
		t.Fatal("Expected enter on write-your-own to open the text input")
	}

	picker.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("You are a pirate")})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if picker.EditingCustom() {
		t.Error("Expected text input to close on enter")
	}
	if !picker.IsSubmitted() {
		t.Fatal("Expected picker to be submitted")
	}
	sel := picker.Selection()
	if !sel.Custom || sel.CustomText != "You are a pirate" {
		t.Errorf("Expected custom selection with typed text, got %+v", sel)
	}
}

func TestSectionPickerMultiCustomRidesAlong(t *testing.T) {
	picker := NewSectionPicker(models.CategoryOutput, pickerElements(), models.Selection{})

	// Write custom text; in a multi picker this toggles the option on
	// instead of submitting
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picker.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Markdown only")})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if picker.IsSubmitted() {
		t.Fatal("Expected multi picker to stay open after custom text")
	}
	if !picker.isPicked(pickerOptionCustom) {
		t.Error("Expected custom option to be picked after entering text")
	}

	// Add a stored title and confirm
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeySpace})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !picker.IsSubmitted() {
		t.Fatal("Expected picker to be submitted")
	}
	sel := picker.Selection()
	if !sel.Multi || !sel.Custom || sel.CustomText != "Markdown only" {
		t.Errorf("Unexpected selection: %+v", sel)
	}
	if len(sel.Titles) != 1 || sel.Titles[0] != "Brief" {
		t.Errorf("Expected [Brief], got %v", sel.Titles)
	}
}

func TestSectionPickerCancel(t *testing.T) {
	picker := NewSectionPicker(models.CategoryRole, pickerElements(), models.Selection{})

	picker.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if !picker.IsCanceled() {
		t.Error("Expected picker to be canceled")
	}
	if picker.IsSubmitted() {
		t.Error("Expected no submission on cancel")
	}
}

func TestSectionPickerEscLeavesCustomInput(t *testing.T) {
	picker := NewSectionPicker(models.CategoryRole, nil, models.Selection{})

	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picker.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if picker.EditingCustom() {
		t.Error("Expected esc to close the text input")
	}
	if picker.IsCanceled() || picker.IsSubmitted() {
		t.Error("Expected picker to return to its options")
	}
}

func TestSectionPickerPrefillSingle(t *testing.T) {
	picker := NewSectionPicker(models.CategoryRole, pickerElements(), models.TitleRef("Reviewer"))

	if picker.cursor != pickerOptionFirstTitle+1 {
		t.Errorf("Expected cursor on Reviewer, got %d", picker.cursor)
	}
}

func TestSectionPickerPrefillMulti(t *testing.T) {
	current := models.TitleRefs("Table", "Brief").WithCustom("Markdown only")
	picker := NewSectionPicker(models.CategoryOutput, pickerElements(), current)

	if !picker.isPicked(pickerOptionCustom) {
		t.Error("Expected custom option to be pre-picked")
	}
	if picker.customInput.Value() != "Markdown only" {
		t.Errorf("Expected custom text to be restored, got %q", picker.customInput.Value())
	}

	// Confirm from a title row; enter on skip or write-your-own means
	// something else
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := picker.Selection()
	if len(sel.Titles) != 2 || sel.Titles[0] != "Table" || sel.Titles[1] != "Brief" {
		t.Errorf("Expected restored pick order [Table Brief], got %v", sel.Titles)
	}
}
