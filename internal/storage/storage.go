package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmowens/promptdeck/internal/models"
)

// Store names and their column headers. Each store lives in the library
// directory as <name>.csv.
const (
	ElementsStore = "prompt_elements"
	HistoryStore  = "prompt_history"
)

var (
	ElementColumns = []string{"title", "type", "content"}
	HistoryColumns = []string{"name", "timestamp", "prompt"}
)

// Storage handles all file system operations for element and history tables
type Storage struct {
	rootPath string
}

// NewStorage creates a new storage instance rooted at the given directory.
// An empty rootPath falls back to ~/.promptdeck. The directory is created
// if it does not exist yet.
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".promptdeck")
	}

	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory %s: %w", rootPath, err)
	}

	return &Storage{rootPath: rootPath}, nil
}

// InitLibrary creates the library directory and both store files so a
// fresh library is browsable before anything has been saved.
func (s *Storage) InitLibrary() error {
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.rootPath, err)
	}

	if _, err := s.Load(ElementsStore, ElementColumns); err != nil {
		return err
	}
	if _, err := s.Load(HistoryStore, HistoryColumns); err != nil {
		return err
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// StorePath returns the file path backing the named store.
func (s *Storage) StorePath(name string) string {
	return filepath.Join(s.rootPath, name+".csv")
}

// Load reads the named store into a Table. When the backing file does
// not exist it is created with exactly the given header and an empty
// table is returned. The schema is not enforced against existing files:
// whatever columns the file carries are what the table reports.
func (s *Storage) Load(name string, schema []string) (*Table, error) {
	path := s.StorePath(name)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.writeTable(NewTable(schema), path); err != nil {
			return nil, err
		}
		return NewTable(schema), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", name, err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", name, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

// Save rewrites the named store in full from the given table.
func (s *Storage) Save(t *Table, name string) error {
	return s.writeTable(t, s.StorePath(name))
}

// writeTable serializes header plus rows and replaces the target file
// atomically: the bytes land in a temp file in the same directory which
// is then renamed over the destination.
func (s *Storage) writeTable(t *Table, path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to encode header for %s: %w", path, err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to encode row for %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// LoadElements reads the element store and maps its rows by column name.
func (s *Storage) LoadElements() ([]models.Element, error) {
	t, err := s.Load(ElementsStore, ElementColumns)
	if err != nil {
		return nil, err
	}

	titleIdx := t.ColumnIndex("title")
	typeIdx := t.ColumnIndex("type")
	contentIdx := t.ColumnIndex("content")
	if titleIdx < 0 || typeIdx < 0 || contentIdx < 0 {
		return nil, fmt.Errorf("element store %s is missing required columns (have %v)", ElementsStore, t.Columns)
	}

	elements := make([]models.Element, 0, t.Len())
	for _, row := range t.Rows {
		elements = append(elements, models.Element{
			Title:    row[titleIdx],
			Category: models.Category(row[typeIdx]),
			Content:  row[contentIdx],
		})
	}
	return elements, nil
}

// SaveElements rewrites the element store from the given slice,
// preserving order.
func (s *Storage) SaveElements(elements []models.Element) error {
	t := NewTable(ElementColumns)
	for _, e := range elements {
		t.Append([]string{e.Title, string(e.Category), e.Content})
	}
	return s.Save(t, ElementsStore)
}

// LoadHistory reads the history store in file order, oldest first.
func (s *Storage) LoadHistory() ([]models.HistoryEntry, error) {
	t, err := s.Load(HistoryStore, HistoryColumns)
	if err != nil {
		return nil, err
	}

	nameIdx := t.ColumnIndex("name")
	tsIdx := t.ColumnIndex("timestamp")
	promptIdx := t.ColumnIndex("prompt")
	if nameIdx < 0 || tsIdx < 0 || promptIdx < 0 {
		return nil, fmt.Errorf("history store %s is missing required columns (have %v)", HistoryStore, t.Columns)
	}

	entries := make([]models.HistoryEntry, 0, t.Len())
	for _, row := range t.Rows {
		entries = append(entries, models.HistoryEntry{
			Name:      row[nameIdx],
			Timestamp: row[tsIdx],
			Prompt:    row[promptIdx],
		})
	}
	return entries, nil
}

// AppendHistory loads the current history, appends the entry and
// rewrites the store.
func (s *Storage) AppendHistory(entry models.HistoryEntry) error {
	t, err := s.Load(HistoryStore, HistoryColumns)
	if err != nil {
		return err
	}
	t.Append([]string{entry.Name, entry.Timestamp, entry.Prompt})
	return s.Save(t, HistoryStore)
}

// ExportHistory serializes the full history table, header included, for
// download. Row content is passed through untouched.
func (s *Storage) ExportHistory() ([]byte, error) {
	t, err := s.Load(HistoryStore, HistoryColumns)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to encode history header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to encode history row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return buf.Bytes(), nil
}
