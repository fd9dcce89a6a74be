package service

import (
	"os"
	"testing"
	"time"

	"github.com/kmowens/promptdeck/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "promptdeck-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	svc, err := NewServiceWithDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return svc
}

func seedElements(t *testing.T, svc *Service) []models.Element {
	t.Helper()

	seeds := []struct {
		title    string
		category models.Category
		content  string
	}{
		{"Assistant", models.CategoryRole, "You are a helpful assistant."},
		{"Ship It", models.CategoryGoal, "Get the feature shipped."},
		{"Casual", models.CategoryTone, "Keep it casual."},
	}

	var out []models.Element
	for _, seed := range seeds {
		elem, err := svc.AddElement(seed.title, seed.category, seed.content)
		if err != nil {
			t.Fatalf("Failed to add element %q: %v", seed.title, err)
		}
		out = append(out, elem)
	}
	return out
}

func TestAddElementAppendsInOrder(t *testing.T) {
	svc := newTestService(t)
	seedElements(t, svc)

	added, err := svc.AddElement("Engineers", models.CategoryAudience, "Software engineers.")
	if err != nil {
		t.Fatalf("Failed to add element: %v", err)
	}

	elements, err := svc.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	if len(elements) != 4 {
		t.Fatalf("Expected 4 elements, got %d", len(elements))
	}
	last := elements[len(elements)-1]
	if last.ID != added.ID || last.Title != "Engineers" {
		t.Errorf("Expected new element last, got %+v", last)
	}
}

func TestListElementsFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	seedElements(t, svc)

	roles, err := svc.ListElements("role")
	if err != nil {
		t.Fatalf("Failed to list role elements: %v", err)
	}
	if len(roles) != 1 || roles[0].Title != "Assistant" {
		t.Errorf("Expected only the role element, got %+v", roles)
	}

	if _, err := svc.ListElements("mood"); err == nil {
		t.Error("Expected error for unknown category filter")
	}
}

func TestSessionIDsFollowStorageOrder(t *testing.T) {
	svc := newTestService(t)
	seedElements(t, svc)

	// A fresh service over the same directory assigns 1..n again
	fresh, err := NewServiceWithDir(svc.BaseDir())
	if err != nil {
		t.Fatalf("Failed to create second service: %v", err)
	}
	elements, err := fresh.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	for i, e := range elements {
		if e.ID != i+1 {
			t.Errorf("Expected ID %d at position %d, got %d", i+1, i, e.ID)
		}
	}
}

func TestUpdateElementPersists(t *testing.T) {
	svc := newTestService(t)
	seeded := seedElements(t, svc)

	updated, err := svc.UpdateElement(seeded[1].ID, "Ship Fast", models.CategoryGoal, "Ship this week.")
	if err != nil {
		t.Fatalf("Failed to update element: %v", err)
	}
	if updated.Title != "Ship Fast" {
		t.Errorf("Expected updated title, got %q", updated.Title)
	}

	// Re-read from disk through a fresh service
	fresh, err := NewServiceWithDir(svc.BaseDir())
	if err != nil {
		t.Fatalf("Failed to create second service: %v", err)
	}
	elements, err := fresh.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	if elements[1].Title != "Ship Fast" || elements[1].Content != "Ship this week." {
		t.Errorf("Update not persisted: %+v", elements[1])
	}
	if elements[0].Title != "Assistant" || elements[2].Title != "Casual" {
		t.Errorf("Neighboring elements altered: %+v", elements)
	}
}

func TestDeleteElementKeepsOthersIntact(t *testing.T) {
	svc := newTestService(t)
	seeded := seedElements(t, svc)

	if err := svc.DeleteElement(seeded[1].ID); err != nil {
		t.Fatalf("Failed to delete element: %v", err)
	}

	elements, err := svc.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("Expected 2 elements after delete, got %d", len(elements))
	}
	if elements[0].Title != "Assistant" || elements[1].Title != "Casual" {
		t.Errorf("Wrong elements survived: %+v", elements)
	}

	// Survivors keep their session IDs, so stale handles stay valid
	if elements[0].ID != seeded[0].ID || elements[1].ID != seeded[2].ID {
		t.Errorf("Survivor IDs changed: %+v", elements)
	}
}

func TestDeleteTwiceFails(t *testing.T) {
	svc := newTestService(t)
	seeded := seedElements(t, svc)

	if err := svc.DeleteElement(seeded[0].ID); err != nil {
		t.Fatalf("Failed to delete element: %v", err)
	}
	if err := svc.DeleteElement(seeded[0].ID); err == nil {
		t.Error("Expected second delete of same ID to fail")
	}
}

func TestSearchElements(t *testing.T) {
	svc := newTestService(t)
	seedElements(t, svc)

	results, err := svc.SearchElements("casual")
	if err != nil {
		t.Fatalf("Failed to search elements: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected search to find the tone element")
	}
	if results[0].Title != "Casual" {
		t.Errorf("Expected Casual first, got %q", results[0].Title)
	}

	all, err := svc.SearchElements("")
	if err != nil {
		t.Fatalf("Failed to search with empty query: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected empty query to return all elements, got %d", len(all))
	}
}

func TestComposePromptResolvesStoredElements(t *testing.T) {
	svc := newTestService(t)
	seedElements(t, svc)

	prompt, err := svc.ComposePrompt(models.Selections{
		models.CategoryRole: models.TitleRef("Assistant"),
		models.CategoryTone: models.TitleRef("Casual"),
	}, false)
	if err != nil {
		t.Fatalf("Failed to compose prompt: %v", err)
	}

	want := "Role: You are a helpful assistant.\n\nTone: Keep it casual."
	if prompt != want {
		t.Errorf("Expected %q, got %q", want, prompt)
	}
}

func TestSaveHistoryStampsAndLists(t *testing.T) {
	svc := newTestService(t)

	entry, err := svc.SaveHistory("demo", "hello")
	if err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}
	if _, err := time.Parse(models.TimestampLayout, entry.Timestamp); err != nil {
		t.Errorf("Timestamp %q does not match layout: %v", entry.Timestamp, err)
	}

	entries, err := svc.ListHistory()
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "demo" || entries[0].Prompt != "hello" {
		t.Errorf("Unexpected history entries: %+v", entries)
	}
}

func TestListHistoryNewestFirst(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.SaveHistory("first", "one"); err != nil {
		t.Fatalf("Failed to save first entry: %v", err)
	}
	if _, err := svc.SaveHistory("second", "two"); err != nil {
		t.Fatalf("Failed to save second entry: %v", err)
	}

	entries, err := svc.ListHistory()
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "second" || entries[1].Name != "first" {
		t.Errorf("Expected newest first, got %q then %q", entries[0].Name, entries[1].Name)
	}
}

func TestExportHistoryHeader(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.SaveHistory("demo", "hello"); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}

	data, err := svc.ExportHistory()
	if err != nil {
		t.Fatalf("Failed to export history: %v", err)
	}
	if got := string(data[:22]); got != "name,timestamp,prompt\n" {
		t.Errorf("Expected header first, got %q", got)
	}
}

func TestSearchHistory(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.SaveHistory("release notes", "Goal: summarize changes"); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}
	if _, err := svc.SaveHistory("bug triage", "Goal: rank bugs"); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}

	results, err := svc.SearchHistory("triage")
	if err != nil {
		t.Fatalf("Failed to search history: %v", err)
	}
	if len(results) == 0 || results[0].Name != "bug triage" {
		t.Errorf("Expected bug triage entry, got %+v", results)
	}
}
