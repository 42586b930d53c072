package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

// FeedbackRequest labels a past decision with its ground-truth result.
// Feedback drives cross-session threshold adaptation and typically
// arrives rounds after the decision it grades.
type FeedbackRequest struct {
	Action  game.Action `json:"action"`
	Score   float64     `json:"score"`
	Success bool        `json:"success"`
}

// FeedbackHandler feeds decision outcomes to the session role's
// optimizer.
type FeedbackHandler struct {
	storage storage.Storage
	opts    *decision.Optimizers
	logger  *slog.Logger
}

func NewFeedbackHandler(storage storage.Storage, opts *decision.Optimizers, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		storage: storage,
		opts:    opts,
		logger:  logger,
	}
}

func (h *FeedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/sessions/{id}/feedback.")
		return
	}

	id, ok := sessionIDFromPath(r.URL.Path, "feedback")
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with action and success fields.")
		return
	}
	if req.Action == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Missing required field: action")
		return
	}

	// The session must exist, but feedback mutates only the optimizer.
	gc, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if gc == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	profile, err := h.storage.GetProfile(r.Context(), gc.Role)
	if err != nil {
		h.logger.Error("Failed to load role profile", "error", err, "role", gc.Role)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load role profile.")
		return
	}

	h.opts.For(gc.Role, profile.Thresholds).RecordOutcome(decision.Outcome{
		Action:  req.Action,
		Score:   req.Score,
		Success: req.Success,
	})

	h.logger.Debug("Outcome recorded",
		"session_id", id,
		"action", req.Action,
		"success", req.Success)
	w.WriteHeader(http.StatusNoContent)
}
