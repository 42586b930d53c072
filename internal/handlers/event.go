package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/evidence"
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/trust"
)

// Event types accepted by the events endpoint.
const (
	EventSpeech       = "speech"
	EventVote         = "vote"
	EventElimination  = "elimination"
	EventVerification = "verification"
	EventRound        = "round"
)

// EventRequest is one game event pushed by the hosting engine.
type EventRequest struct {
	Type   string `json:"type"`
	Actor  string `json:"actor,omitempty"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text,omitempty"`
	Round  int    `json:"round,omitempty"`

	// Alignment accompanies verification events.
	Alignment game.Alignment `json:"alignment,omitempty"`
}

// EventResponse reports the pipeline's reaction to the event. Record
// and Trust are only present for speech events.
type EventResponse struct {
	SessionID string           `json:"session_id"`
	Round     int              `json:"round"`
	Phase     game.Phase       `json:"phase"`
	Record    *evidence.Record `json:"record,omitempty"`
	Trust     *float64         `json:"trust,omitempty"`
}

// EventHandler ingests game events: speech runs the full classify →
// trust-update pipeline; the rest mutate session state directly.
type EventHandler struct {
	storage    storage.Storage
	classifier evidence.Classifier
	trust      *trust.Engine
	logger     *slog.Logger
}

func NewEventHandler(storage storage.Storage, classifier evidence.Classifier, trustEngine *trust.Engine, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		storage:    storage,
		classifier: classifier,
		trust:      trustEngine,
		logger:     logger,
	}
}

func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/sessions/{id}/events.")
		return
	}

	id, ok := sessionIDFromPath(r.URL.Path, "events")
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'type' field.")
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

	resp := EventResponse{SessionID: id.String()}

	switch req.Type {
	case EventRound:
		gc.StartRound(req.Round)
		gc.Log("round %d begins", gc.Round)

	case EventSpeech:
		if req.Actor == "" || req.Text == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Speech events require actor and text.")
			return
		}
		rec, err := h.classifier.Analyze(r.Context(), req.Actor, req.Text, gc.History)
		if err != nil {
			// Classifiers degrade internally; an error here means even
			// the fallback failed. Log and carry on without a record.
			h.logger.Error("Evidence classifier failed", "error", err, "actor", req.Actor)
		}
		if rec != nil {
			newTrust := evidence.Apply(gc, h.trust, rec)
			resp.Record = rec
			resp.Trust = &newTrust
		}
		gc.Log("%s: %s", req.Actor, req.Text)

	case EventVote:
		if req.Actor == "" || req.Target == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Vote events require actor and target.")
			return
		}
		evidence.RecordVote(gc, req.Actor, req.Target)
		gc.Log("%s voted for %s", req.Actor, req.Target)

	case EventElimination:
		if req.Target == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Elimination events require target.")
			return
		}
		gc.Eliminate(req.Target)
		gc.Log("%s was eliminated", req.Target)

	case EventVerification:
		if req.Target == "" || req.Alignment == game.AlignmentUnknown {
			writeError(w, h.logger, http.StatusBadRequest, "Verification events require target and alignment.")
			return
		}
		gc.Verify(req.Target, req.Alignment)
		gc.Log("%s verified as %s", req.Target, req.Alignment)

	default:
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unknown event type %q", req.Type))
		return
	}

	if err := h.storage.SaveSession(r.Context(), id, gc); err != nil {
		h.logger.Error("Failed to save session after event", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session.")
		return
	}

	resp.Round = gc.Round
	resp.Phase = gc.Phase()
	writeJSON(w, h.logger, http.StatusOK, resp)
}
