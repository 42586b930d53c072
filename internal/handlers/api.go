package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ErrorResponse is the JSON error body every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes a response body, logging encode failures.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError sends a JSON error response.
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// sessionIDFromPath extracts the session UUID from paths of the form
// /v1/sessions/{id}[/suffix].
func sessionIDFromPath(path, suffix string) (uuid.UUID, bool) {
	path = strings.TrimPrefix(path, "/v1/sessions")
	path = strings.Trim(path, "/")
	if suffix != "" {
		path = strings.TrimSuffix(path, suffix)
		path = strings.Trim(path, "/")
	}
	if path == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(path)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
