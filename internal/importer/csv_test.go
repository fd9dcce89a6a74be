package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kmowens/promptdeck/internal/service"
)

func newTestImporter(t *testing.T) (*CSVImporter, *service.Service) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "promptdeck-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	svc, err := service.NewServiceWithDir(filepath.Join(tmpDir, "library"))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return NewCSVImporter(svc), svc
}

func writeImportFile(t *testing.T, content string) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "promptdeck-import-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "elements.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write import file: %v", err)
	}
	return path
}

func TestImportAddsElements(t *testing.T) {
	imp, svc := newTestImporter(t)

	path := writeImportFile(t,
		"title,type,content\n"+
			"Assistant,role,You are a helpful assistant.\n"+
			"Casual,tone,Keep it casual.\n")

	result, err := imp.Import(ImportOptions{Path: path})
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if len(result.Imported) != 2 {
		t.Fatalf("Expected 2 imported, got %d", len(result.Imported))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no row errors, got %v", result.Errors)
	}

	elements, err := svc.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	if len(elements) != 2 || elements[1].Title != "Casual" {
		t.Errorf("Unexpected elements after import: %+v", elements)
	}
}

func TestImportCollectsRowErrors(t *testing.T) {
	imp, svc := newTestImporter(t)

	path := writeImportFile(t,
		"title,type,content\n"+
			"Assistant,role,You are a helpful assistant.\n"+
			",role,missing title\n"+
			"Moody,mood,not a real category\n")

	result, err := imp.Import(ImportOptions{Path: path})
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if len(result.Imported) != 1 {
		t.Errorf("Expected 1 imported, got %d", len(result.Imported))
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 row errors, got %v", result.Errors)
	}

	elements, err := svc.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	if len(elements) != 1 {
		t.Errorf("Expected only the valid row stored, got %+v", elements)
	}
}

func TestImportSkipsDuplicates(t *testing.T) {
	imp, svc := newTestImporter(t)

	if _, err := svc.AddElement("Assistant", "role", "You are a helpful assistant."); err != nil {
		t.Fatalf("Failed to seed element: %v", err)
	}

	path := writeImportFile(t,
		"title,type,content\n"+
			"Assistant,role,You are a helpful assistant.\n"+
			"Assistant,role,A different spin on the assistant.\n")

	result, err := imp.Import(ImportOptions{Path: path, SkipDuplicates: true})
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if len(result.Skipped) != 1 {
		t.Errorf("Expected 1 skipped duplicate, got %d", len(result.Skipped))
	}
	if len(result.Imported) != 1 {
		t.Errorf("Expected 1 imported, got %d", len(result.Imported))
	}
}

func TestPreviewImportWritesNothing(t *testing.T) {
	imp, svc := newTestImporter(t)

	path := writeImportFile(t,
		"title,type,content\n"+
			"Assistant,role,You are a helpful assistant.\n")

	result, err := imp.PreviewImport(ImportOptions{Path: path})
	if err != nil {
		t.Fatalf("Failed to preview import: %v", err)
	}
	if len(result.Imported) != 1 {
		t.Errorf("Expected preview to report 1 element, got %d", len(result.Imported))
	}

	elements, err := svc.ListElements("all")
	if err != nil {
		t.Fatalf("Failed to list elements: %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("Expected no elements stored after preview, got %+v", elements)
	}
}

func TestImportRejectsForeignHeader(t *testing.T) {
	imp, _ := newTestImporter(t)

	path := writeImportFile(t, "alpha,beta\n1,2\n")

	if _, err := imp.Import(ImportOptions{Path: path}); err == nil {
		t.Error("Expected error for file without element columns")
	}
}
