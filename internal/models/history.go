package models

import "strings"

// TimestampLayout is the fixed second-resolution format history entries are
// stamped with. It is part of the on-disk format: stored values are written
// and compared as opaque strings, never reparsed.
const TimestampLayout = "2006-01-02 15:04:05"

// HistoryEntry is one saved, generated prompt. Entries are append-only:
// nothing in the system mutates or deletes them after creation.
type HistoryEntry struct {
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Prompt    string `json:"prompt"`
}

// Title satisfies the bubbles list.Item interface.
func (h HistoryEntry) Title() string {
	if h.Name == "" {
		return "(unnamed)"
	}
	return h.Name
}

// Description satisfies the list.Item interface: the timestamp plus the
// first line of the saved prompt.
func (h HistoryEntry) Description() string {
	preview := h.Prompt
	if i := strings.IndexByte(preview, '\n'); i >= 0 {
		preview = preview[:i]
	}
	if len(preview) > 60 {
		preview = preview[:57] + "..."
	}
	if preview == "" {
		return h.Timestamp
	}
	return h.Timestamp + " • " + preview
}

// FilterValue returns the value used for list filtering and fuzzy search.
func (h HistoryEntry) FilterValue() string {
	return h.Name + " " + h.Prompt
}
