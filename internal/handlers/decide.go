package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/fusion"
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/roles"
)

// DecideRequest asks the agent to pick a target for one action.
// Candidates and ExternalProbs are optional: a nil candidate list means
// everyone alive, and external probabilities fuse in per candidate
// where present.
type DecideRequest struct {
	Action        game.Action        `json:"action"`
	Candidates    []string           `json:"candidates,omitempty"`
	ExternalProbs map[string]float64 `json:"external_probs,omitempty"`
}

// DecideHandler runs the scoring, fusion and policy stack for one
// decision. The optimizer registry and fusion engine are shared across
// all sessions; the rest is rebuilt per request from the session's
// role profile.
type DecideHandler struct {
	storage storage.Storage
	opts    *decision.Optimizers
	fusion  *fusion.Engine
	logger  *slog.Logger
}

func NewDecideHandler(storage storage.Storage, opts *decision.Optimizers, fus *fusion.Engine, logger *slog.Logger) *DecideHandler {
	return &DecideHandler{
		storage: storage,
		opts:    opts,
		fusion:  fus,
		logger:  logger,
	}
}

func (h *DecideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/sessions/{id}/decide.")
		return
	}

	id, ok := sessionIDFromPath(r.URL.Path, "decide")
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'action' field.")
		return
	}
	if req.Action == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Missing required field: action")
		return
	}

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

	opt := h.opts.For(gc.Role, profile.Thresholds)
	agent := roles.NewAgent(*profile, opt, h.fusion, h.logger)
	result, err := agent.Decide(gc, req.Action, req.Candidates, req.ExternalProbs)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	// Decisions can consume one-shot resources and update LastGuarded.
	if err := h.storage.SaveSession(r.Context(), id, gc); err != nil {
		h.logger.Error("Failed to save session after decision", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session.")
		return
	}

	h.logger.Info("Decision made",
		"session_id", id,
		"action", req.Action,
		"kind", result.Kind,
		"target", result.Target,
		"confidence", result.Confidence)
	writeJSON(w, h.logger, http.StatusOK, result)
}
