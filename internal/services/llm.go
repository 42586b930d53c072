package services

import (
	"context"

	"github.com/jwebster45206/wolf-agent/pkg/chat"
)

// LLMService defines the interface for interacting with an LLM API.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a completion for the conversation.
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}
