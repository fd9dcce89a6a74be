package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/service"
	"github.com/kmowens/promptdeck/internal/validation"
)

// elementRequest is the body for element create and update operations
type elementRequest struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// composeRequest carries per-category selections keyed by category name
type composeRequest struct {
	Selections      map[string]models.Selection `json:"selections"`
	RequestFeedback bool                        `json:"request_feedback"`
}

type composeResponse struct {
	Prompt string `json:"prompt"`
}

// historyRequest is the body for saving a composed prompt
type historyRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

func (s *Server) handleListElements(w http.ResponseWriter, r *http.Request) {
	var (
		elements []models.Element
		err      error
	)
	if query := r.URL.Query().Get("q"); query != "" {
		elements, err = s.service.SearchElements(query)
	} else {
		elements, err = s.service.ListElements(r.URL.Query().Get("type"))
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	if elements == nil {
		elements = []models.Element{}
	}
	writeJSON(w, http.StatusOK, elements)
}

func (s *Server) handleCreateElement(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[elementRequest](w, r)
	if !ok {
		return
	}

	if result := validation.ValidateElement(req.Title, req.Type, req.Content); !result.Valid {
		writeAppError(w, result.ToAppError())
		return
	}
	cat, err := models.ParseCategory(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	elem, err := s.service.AddElement(req.Title, cat, req.Content)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, elem)
}

func (s *Server) handleGetElement(w http.ResponseWriter, r *http.Request) {
	id, ok := elementID(w, r)
	if !ok {
		return
	}

	elem, err := s.service.GetElement(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, elem)
}

func (s *Server) handleUpdateElement(w http.ResponseWriter, r *http.Request) {
	id, ok := elementID(w, r)
	if !ok {
		return
	}
	req, ok := readJSON[elementRequest](w, r)
	if !ok {
		return
	}

	if result := validation.ValidateElement(req.Title, req.Type, req.Content); !result.Valid {
		writeAppError(w, result.ToAppError())
		return
	}
	cat, err := models.ParseCategory(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	elem, err := s.service.UpdateElement(id, req.Title, cat, req.Content)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, elem)
}

func (s *Server) handleDeleteElement(w http.ResponseWriter, r *http.Request) {
	id, ok := elementID(w, r)
	if !ok {
		return
	}

	if err := s.service.DeleteElement(id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[composeRequest](w, r)
	if !ok {
		return
	}

	selections := models.Selections{}
	for name, sel := range req.Selections {
		cat, err := models.ParseCategory(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		selections[cat] = sel
	}

	prompt, err := s.service.ComposePrompt(selections, req.RequestFeedback)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, composeResponse{Prompt: prompt})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	var (
		entries []models.HistoryEntry
		err     error
	)
	if query := r.URL.Query().Get("q"); query != "" {
		entries, err = s.service.SearchHistory(query)
	} else {
		entries, err = s.service.ListHistory()
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[historyRequest](w, r)
	if !ok {
		return
	}

	if result := validation.ValidateHistoryName(req.Name); !result.Valid {
		writeAppError(w, result.ToAppError())
		return
	}

	entry, err := s.service.SaveHistory(req.Name, req.Prompt)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportHistory()
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", service.ExportFilename()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// elementID parses the {id} route parameter
func elementID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid element id")
		return 0, false
	}
	return id, true
}
