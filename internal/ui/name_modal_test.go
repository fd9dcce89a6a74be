package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSaveNameModalSubmit(t *testing.T) {
	modal := NewSaveNameModal()

	if modal.IsActive() {
		t.Error("Expected modal to start inactive")
	}

	modal.SetActive(true)
	if !modal.IsActive() {
		t.Fatal("Expected modal to be active")
	}

	modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("weekly report")})
	if modal.Name() != "weekly report" {
		t.Fatalf("Expected typed name, got %q", modal.Name())
	}

	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !modal.IsSubmitted() {
		t.Error("Expected modal to be submitted")
	}
}

func TestSaveNameModalRefusesEmptyName(t *testing.T) {
	modal := NewSaveNameModal()
	modal.SetActive(true)

	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if modal.IsSubmitted() {
		t.Error("Expected empty name to be refused")
	}

	modal.nameInput.SetValue("   ")
	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if modal.IsSubmitted() {
		t.Error("Expected whitespace-only name to be refused")
	}
}

func TestSaveNameModalEscCancels(t *testing.T) {
	modal := NewSaveNameModal()
	modal.SetActive(true)
	modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("draft")})

	modal.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if modal.IsActive() {
		t.Error("Expected esc to close the modal")
	}

	// Reopening resets the previous input
	modal.SetActive(true)
	if modal.Name() != "" {
		t.Errorf("Expected a fresh input on reopen, got %q", modal.Name())
	}
	if modal.IsSubmitted() {
		t.Error("Expected submitted state to reset on reopen")
	}
}
