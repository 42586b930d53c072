package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/wolf-agent/internal/services"
	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/prompts"
)

// SpeechRequest asks the agent to produce a day-discussion speech.
// Stance is the engine's decision summary, passed back by the caller
// after a decide call; it may be empty.
type SpeechRequest struct {
	Stance string `json:"stance,omitempty"`
}

type SpeechResponse struct {
	Speech string `json:"speech"`
}

// SpeechHandler generates in-character table talk from session state.
type SpeechHandler struct {
	storage storage.Storage
	llm     services.LLMService
	builder *prompts.Builder
	logger  *slog.Logger
}

func NewSpeechHandler(storage storage.Storage, llm services.LLMService, logger *slog.Logger) *SpeechHandler {
	return &SpeechHandler{
		storage: storage,
		llm:     llm,
		builder: prompts.NewBuilder(),
		logger:  logger,
	}
}

func (h *SpeechHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/sessions/{id}/speech.")
		return
	}

	id, ok := sessionIDFromPath(r.URL.Path, "speech")
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
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

	messages := h.builder.Speech(gc, req.Stance)
	resp, err := h.llm.Chat(r.Context(), messages)
	if err != nil {
		h.logger.Error("Speech generation failed", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusBadGateway, "Failed to generate speech.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, SpeechResponse{Speech: resp.Message})
}
