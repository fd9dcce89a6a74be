package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmowens/promptdeck/internal/models"
)

// Form field indexes
const (
	elementTitleField = iota
	elementCategoryField
	elementContentField
	elementFieldCount
)

// ElementForm edits one prompt element: a title, a type picked from the
// fixed category set, and the fragment text. Tab cycles fields; the type
// field cycles categories with the arrow keys.
type ElementForm struct {
	titleInput  textinput.Model
	categoryIdx int
	textarea    textarea.Model
	focused     int
	elementID   int // 0 until an existing element is loaded
}

// NewElementForm creates an empty form for a new element.
func NewElementForm() *ElementForm {
	titleInput := textinput.New()
	titleInput.Placeholder = "Element title"
	titleInput.CharLimit = 100
	titleInput.Width = 50
	titleInput.Focus()

	ta := textarea.New()
	ta.Placeholder = "Element text..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(70)
	ta.SetHeight(8)

	return &ElementForm{
		titleInput: titleInput,
		textarea:   ta,
		focused:    elementTitleField,
	}
}

// LoadElement pre-populates the form with an existing element for editing.
func (f *ElementForm) LoadElement(elem models.Element) {
	f.elementID = elem.ID
	f.titleInput.SetValue(elem.Title)
	f.textarea.SetValue(elem.Content)
	for i, c := range models.Categories() {
		if c == elem.Category {
			f.categoryIdx = i
			break
		}
	}
}

// ToElement builds an element from the current form values. The ID is the
// loaded element's ID, or zero for new elements.
func (f *ElementForm) ToElement() models.Element {
	return models.Element{
		ID:       f.elementID,
		Title:    strings.TrimSpace(f.titleInput.Value()),
		Category: models.Categories()[f.categoryIdx],
		Content:  f.textarea.Value(),
	}
}

// IsEdit reports whether the form was loaded from an existing element.
func (f *ElementForm) IsEdit() bool {
	return f.elementID != 0
}

// Update handles input for the form.
func (f *ElementForm) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab":
			f.focused = (f.focused + 1) % elementFieldCount
			f.updateFocus()
			return nil
		case "shift+tab":
			f.focused = (f.focused + elementFieldCount - 1) % elementFieldCount
			f.updateFocus()
			return nil
		}

		if f.focused == elementCategoryField {
			switch keyMsg.String() {
			case "left", "h", "up", "k":
				f.categoryIdx = (f.categoryIdx + len(models.Categories()) - 1) % len(models.Categories())
			case "right", "l", "down", "j":
				f.categoryIdx = (f.categoryIdx + 1) % len(models.Categories())
			case "enter":
				f.focused = elementContentField
				f.updateFocus()
			}
			return nil
		}

		if f.focused == elementTitleField && keyMsg.String() == "enter" {
			f.focused = elementCategoryField
			f.updateFocus()
			return nil
		}
	}

	var cmd tea.Cmd
	switch f.focused {
	case elementTitleField:
		f.titleInput, cmd = f.titleInput.Update(msg)
	case elementContentField:
		f.textarea, cmd = f.textarea.Update(msg)
	}
	return cmd
}

// updateFocus moves input focus to the current field.
func (f *ElementForm) updateFocus() {
	f.titleInput.Blur()
	f.textarea.Blur()

	switch f.focused {
	case elementTitleField:
		f.titleInput.Focus()
	case elementContentField:
		f.textarea.Focus()
	}
}

// categoryView renders the type selector line: every category side by side
// with the current one highlighted.
func (f *ElementForm) categoryView() string {
	parts := make([]string, 0, len(models.Categories()))
	for i, c := range models.Categories() {
		label := c.DisplayName()
		if i == f.categoryIdx {
			parts = append(parts, StyleFocused.Render(label))
		} else {
			parts = append(parts, StyleUnselected.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if f.focused == elementCategoryField {
		return "▶ " + line
	}
	return "  " + line
}

// Resize adapts the inputs to the terminal dimensions.
func (f *ElementForm) Resize(width, height int) {
	inputWidth := min(60, width-10)
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.titleInput.Width = inputWidth

	taWidth := min(76, width-8)
	if taWidth < 30 {
		taWidth = 30
	}
	f.textarea.SetWidth(taWidth)

	taHeight := height - 10
	if taHeight < 4 {
		taHeight = 4
	}
	f.textarea.SetHeight(taHeight)
}
