package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

// CreateSessionRequest starts a new game session.
type CreateSessionRequest struct {
	SelfID     string    `json:"self_id"`
	Role       game.Role `json:"role"`
	Players    []string  `json:"players"`
	WolfAllies []string  `json:"wolf_allies,omitempty"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.SelfID == "" {
		return errMissingField("self_id")
	}
	if r.Role == "" {
		return errMissingField("role")
	}
	if len(r.Players) < 2 {
		return errMissingField("players")
	}
	return nil
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func errMissingField(name string) error {
	return fieldError("missing or invalid field: " + name)
}

// SessionHandler manages session lifecycle.
// Routes:
// POST /v1/sessions          - Create a session
// GET /v1/sessions/{id}      - Read session state
// DELETE /v1/sessions/{id}   - Discard a session
type SessionHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewSessionHandler(storage storage.Storage, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet, http.MethodDelete:
		id, ok := sessionIDFromPath(r.URL.Path, "")
		if !ok {
			h.logger.Warn("Request without valid session ID", "path", r.URL.Path)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
		if r.Method == http.MethodGet {
			h.handleRead(w, r, id)
		} else {
			h.handleDelete(w, r, id)
		}
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with self_id, role and players.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	gc := game.NewContext(req.SelfID, game.Role(strings.ToLower(string(req.Role))), req.Players)
	gc.WolfAllies = req.WolfAllies

	if err := h.storage.SaveSession(r.Context(), gc.ID, gc); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session. Please try again.")
		return
	}

	h.logger.Info("Session created",
		"session_id", gc.ID,
		"role", gc.Role,
		"players", len(req.Players))
	writeJSON(w, h.logger, http.StatusCreated, gc)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gc, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if gc == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gc)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
