package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SaveNameModal asks for the name a composed prompt is saved under. It
// refuses to submit an empty name.
type SaveNameModal struct {
	nameInput textinput.Model
	isActive  bool
	submitted bool
	width     int
	height    int
}

// NewSaveNameModal creates the modal in its inactive state.
func NewSaveNameModal() *SaveNameModal {
	nameInput := textinput.New()
	nameInput.Placeholder = "Name this prompt"
	nameInput.CharLimit = 100
	nameInput.Width = 50

	return &SaveNameModal{
		nameInput: nameInput,
	}
}

// SetActive shows or hides the modal. Activating resets previous input.
func (m *SaveNameModal) SetActive(active bool) {
	m.isActive = active
	if active {
		m.submitted = false
		m.nameInput.SetValue("")
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
}

// IsActive returns whether the modal is visible and capturing input.
func (m *SaveNameModal) IsActive() bool {
	return m.isActive
}

// IsSubmitted returns whether a name was confirmed.
func (m *SaveNameModal) IsSubmitted() bool {
	return m.submitted
}

// Name returns the entered name with surrounding whitespace removed.
func (m *SaveNameModal) Name() string {
	return strings.TrimSpace(m.nameInput.Value())
}

// Update handles input for the modal.
func (m *SaveNameModal) Update(msg tea.Msg) tea.Cmd {
	if !m.isActive {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.SetActive(false)
			return nil
		case "enter":
			if m.Name() != "" {
				m.submitted = true
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return cmd
}

// View renders the modal.
func (m *SaveNameModal) View() string {
	if !m.isActive {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(60)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	helpStyle := lipgloss.NewStyle().
		Italic(true).
		MarginTop(1)

	content := []string{
		titleStyle.Render("Save Prompt"),
		"",
		StyleFormLabel.Render("Name:"),
		m.nameInput.View(),
		helpStyle.Render("Enter: save • Esc: cancel"),
	}

	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// Resize updates the modal dimensions.
func (m *SaveNameModal) Resize(width, height int) {
	m.width = width
	m.height = height

	inputWidth := min(50, width-14)
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.nameInput.Width = inputWidth
}
