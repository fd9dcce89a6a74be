package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kmowens/promptdeck/internal/errors"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeAppError maps an application error to its HTTP status. Internal
// failures are logged server-side and masked with a generic message.
func writeAppError(w http.ResponseWriter, err error) {
	appErr := errors.GetAppError(err)
	status := errors.HTTPStatusCode(appErr)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "code", appErr.Code, "error", appErr.Error())
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, appErr.Message)
}
