package service

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kmowens/promptdeck/internal/composer"
	"github.com/kmowens/promptdeck/internal/errors"
	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/storage"
	"github.com/sahilm/fuzzy"
)

// Service provides business logic for element and history management.
// It caches the element table in memory and assigns each element a
// session-scoped ID so callers can address records by identity instead
// of by row position. IDs are never persisted; a reload assigns fresh
// ones.
type Service struct {
	mu       sync.Mutex // guards the element cache and store writes
	storage  *storage.Storage
	elements []models.Element
	nextID   int
	loaded   bool
}

// NewService creates a new service instance. The library directory
// comes from PROMPTDECK_DIR when set, otherwise ~/.promptdeck.
func NewService() (*Service, error) {
	return NewServiceWithDir(os.Getenv("PROMPTDECK_DIR"))
}

// NewServiceWithDir creates a new service instance rooted at the given
// library directory. An empty dir falls back to the default.
func NewServiceWithDir(dir string) (*Service, error) {
	store, err := storage.NewStorage(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return &Service{storage: store}, nil
}

// InitLibrary initializes the library directory and its store files
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// BaseDir returns the library directory path
func (s *Service) BaseDir() string {
	return s.storage.GetBaseDir()
}

// ensureLoaded loads the element table on first use. Callers must hold
// the mutex.
func (s *Service) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	return s.reload()
}

// reload re-reads the element table and assigns fresh IDs in storage
// order. Callers must hold the mutex.
func (s *Service) reload() error {
	elements, err := s.storage.LoadElements()
	if err != nil {
		return err
	}
	for i := range elements {
		elements[i].ID = i + 1
	}
	s.elements = elements
	s.nextID = len(elements) + 1
	s.loaded = true
	return nil
}

// ReloadElements discards the cache and re-reads the element table.
// Previously handed-out IDs are invalid afterwards.
func (s *Service) ReloadElements() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload()
}

// ListElements returns elements in storage order. The filter is a
// category name, or "all" (or empty) for every element.
func (s *Service) ListElements(filter string) ([]models.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	if filter == "" || filter == "all" || filter == "All" {
		return copyElements(s.elements), nil
	}

	cat, err := models.ParseCategory(filter)
	if err != nil {
		return nil, errors.InvalidInputError(err.Error())
	}

	var results []models.Element
	for _, e := range s.elements {
		if e.Category == cat {
			results = append(results, e)
		}
	}
	return results, nil
}

// ElementsByCategory returns the elements of one category in storage
// order.
func (s *Service) ElementsByCategory(cat models.Category) ([]models.Element, error) {
	return s.ListElements(string(cat))
}

// GetElement returns the element with the given session ID
func (s *Service) GetElement(id int) (models.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return models.Element{}, err
	}

	for _, e := range s.elements {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Element{}, errors.NotFoundError(fmt.Sprintf("element %d", id))
}

// AddElement appends a new element and persists the table. Duplicate
// titles within a category are allowed.
func (s *Service) AddElement(title string, cat models.Category, content string) (models.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return models.Element{}, err
	}

	elem := models.Element{
		ID:       s.nextID,
		Title:    title,
		Category: cat,
		Content:  content,
	}

	updated := append(copyElements(s.elements), elem)
	if err := s.storage.SaveElements(updated); err != nil {
		return models.Element{}, err
	}

	s.elements = updated
	s.nextID++
	return elem, nil
}

// UpdateElement overwrites the element with the given ID and persists
// the table.
func (s *Service) UpdateElement(id int, title string, cat models.Category, content string) (models.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return models.Element{}, err
	}

	updated := copyElements(s.elements)
	for i := range updated {
		if updated[i].ID != id {
			continue
		}
		updated[i].Title = title
		updated[i].Category = cat
		updated[i].Content = content

		if err := s.storage.SaveElements(updated); err != nil {
			return models.Element{}, err
		}
		s.elements = updated
		return updated[i], nil
	}

	return models.Element{}, errors.NotFoundError(fmt.Sprintf("element %d", id))
}

// DeleteElement removes the element with the given ID and persists the
// table. Remaining elements keep their IDs.
func (s *Service) DeleteElement(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	updated := make([]models.Element, 0, len(s.elements))
	found := false
	for _, e := range s.elements {
		if e.ID == id {
			found = true
			continue
		}
		updated = append(updated, e)
	}
	if !found {
		return errors.NotFoundError(fmt.Sprintf("element %d", id))
	}

	if err := s.storage.SaveElements(updated); err != nil {
		return err
	}
	s.elements = updated
	return nil
}

// SearchElements searches elements by query string
func (s *Service) SearchElements(query string) ([]models.Element, error) {
	elements, err := s.ListElements("all")
	if err != nil {
		return nil, err
	}

	if query == "" {
		return elements, nil
	}

	// Create searchable strings for each element
	var searchStrings []string
	for _, e := range elements {
		searchStrings = append(searchStrings,
			fmt.Sprintf("%s %s %s", e.Title, e.Category, e.Content))
	}

	// Perform fuzzy search
	matches := fuzzy.Find(query, searchStrings)

	var results []models.Element
	for _, match := range matches {
		results = append(results, elements[match.Index])
	}
	return results, nil
}

// ComposePrompt assembles a prompt from the given selections against
// the current element table.
func (s *Service) ComposePrompt(selections models.Selections, appendFeedback bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return "", err
	}
	return composer.Compose(selections, s.elements, appendFeedback)
}

// SaveHistory stamps the current time on a named prompt and appends it
// to the history store.
func (s *Service) SaveHistory(name, prompt string) (models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.HistoryEntry{
		Name:      name,
		Timestamp: time.Now().Format(models.TimestampLayout),
		Prompt:    prompt,
	}
	if err := s.storage.AppendHistory(entry); err != nil {
		return models.HistoryEntry{}, err
	}
	return entry, nil
}

// ListHistory returns history entries newest first
func (s *Service) ListHistory() ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.storage.LoadHistory()
	if err != nil {
		return nil, err
	}

	reversed := make([]models.HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		reversed = append(reversed, entries[i])
	}
	return reversed, nil
}

// SearchHistory searches history entries by query string, newest first
// when the query is empty
func (s *Service) SearchHistory(query string) ([]models.HistoryEntry, error) {
	entries, err := s.ListHistory()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return entries, nil
	}

	var searchStrings []string
	for _, e := range entries {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s", e.Name, e.Prompt))
	}

	matches := fuzzy.Find(query, searchStrings)

	var results []models.HistoryEntry
	for _, match := range matches {
		results = append(results, entries[match.Index])
	}
	return results, nil
}

// ExportHistory serializes the full history table for download
func (s *Service) ExportHistory() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.ExportHistory()
}

// ExportFilename returns the download filename for a history export,
// embedding the current date.
func ExportFilename() string {
	return fmt.Sprintf("prompt_history_%s.csv", time.Now().Format("20060102"))
}

// copyElements returns a fresh slice so callers cannot mutate the cache
func copyElements(elements []models.Element) []models.Element {
	out := make([]models.Element, len(elements))
	copy(out, elements)
	return out
}
