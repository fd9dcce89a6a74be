// Package importer merges element tables exported from other promptdeck
// libraries into the local store.
package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/service"
)

// CSVImporter imports elements from a CSV file with the element store
// columns (title, type, content).
type CSVImporter struct {
	service *service.Service
}

// NewCSVImporter creates a new CSV importer
func NewCSVImporter(svc *service.Service) *CSVImporter {
	return &CSVImporter{service: svc}
}

// ImportOptions configures the import process
type ImportOptions struct {
	Path           string // CSV file to import from
	DryRun         bool   // Preview what would be imported without writing
	SkipDuplicates bool   // Skip rows identical to an existing element
}

// ImportResult contains the results of an import operation
type ImportResult struct {
	Imported []models.Element // Elements added (or that would be, on dry run)
	Skipped  []models.Element // Duplicate rows that were skipped
	Errors   []error          // Per-row problems that did not stop the import
}

// Import reads the CSV file and appends its valid rows to the element
// store. Rows with a blank title or content, or an unknown category,
// are reported in Errors and skipped; they do not abort the rest.
func (i *CSVImporter) Import(options ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	file, err := os.Open(options.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("import file %s is empty", options.Path)
	}

	titleIdx, typeIdx, contentIdx, err := elementColumns(records[0])
	if err != nil {
		return nil, err
	}

	var existing []models.Element
	if options.SkipDuplicates {
		existing, err = i.service.ListElements("all")
		if err != nil {
			return nil, err
		}
	}

	for n, row := range records[1:] {
		line := n + 2 // 1-based, after the header

		title := row[titleIdx]
		content := row[contentIdx]
		if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
			result.Errors = append(result.Errors,
				fmt.Errorf("line %d: title and content are required", line))
			continue
		}

		cat, err := models.ParseCategory(row[typeIdx])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		elem := models.Element{Title: title, Category: cat, Content: content}
		if options.SkipDuplicates && containsElement(existing, elem) {
			result.Skipped = append(result.Skipped, elem)
			continue
		}

		if !options.DryRun {
			added, err := i.service.AddElement(title, cat, content)
			if err != nil {
				return result, err
			}
			elem = added
		}
		result.Imported = append(result.Imported, elem)
		existing = append(existing, elem)
	}

	return result, nil
}

// PreviewImport reports what Import would do without writing anything
func (i *CSVImporter) PreviewImport(options ImportOptions) (*ImportResult, error) {
	options.DryRun = true
	return i.Import(options)
}

// elementColumns locates the element store columns in an import header
func elementColumns(header []string) (titleIdx, typeIdx, contentIdx int, err error) {
	titleIdx, typeIdx, contentIdx = -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "title":
			titleIdx = i
		case "type":
			typeIdx = i
		case "content":
			contentIdx = i
		}
	}
	if titleIdx < 0 || typeIdx < 0 || contentIdx < 0 {
		return 0, 0, 0, fmt.Errorf("import header must include title, type and content columns (have %v)", header)
	}
	return titleIdx, typeIdx, contentIdx, nil
}

// containsElement reports whether an identical element already exists
func containsElement(elements []models.Element, elem models.Element) bool {
	for _, e := range elements {
		if e.Title == elem.Title && e.Category == elem.Category && e.Content == elem.Content {
			return true
		}
	}
	return false
}
