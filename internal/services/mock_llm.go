package services

import (
	"context"
	"strings"
	"sync"

	"github.com/jwebster45206/wolf-agent/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing and
// for running the server with no provider configured.
type MockLLMAPI struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	ChatFunc      func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	InitModelCalls []string
	ChatCalls      []ChatCall

	mu sync.Mutex // protects all fields above
}

type ChatCall struct {
	Messages []chat.ChatMessage
}

// NewMockLLMAPI creates a new mock LLM service.
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		InitModelCalls: make([]string, 0),
		ChatCalls:      make([]ChatCall, 0),
	}
}

// InitModel mocks model initialization.
func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Chat mocks response generation. The default response is a canned
// classifier record when the conversation looks like a classification
// request, otherwise a short canned speech.
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, ChatCall{Messages: messages})
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}

	if len(messages) > 0 && messages[0].Role == chat.ChatRoleSystem &&
		strings.Contains(messages[0].Content, "Return ONLY a JSON object") {
		return &chat.ChatResponse{
			Message: `{"injection":false,"false_quote":false,"contradiction":false,"reversal":false,"bandwagon":false,"claimed_role":"","accuses":[],"defends":[],"speech":{"logic":5,"information":4,"persuasion":5,"strategy":4},"trust_delta":0,"confidence":0.7}`,
		}, nil
	}

	return &chat.ChatResponse{Message: "I have nothing unusual to report this round."}, nil
}

// SetChatError sets up the mock to return an error on Chat.
func (m *MockLLMAPI) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// Reset clears all call tracking.
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.ChatCalls = make([]ChatCall, 0)
}

// GetCalls returns a copy of the call tracking data.
func (m *MockLLMAPI) GetCalls() ([]string, []ChatCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	initCalls := make([]string, len(m.InitModelCalls))
	copy(initCalls, m.InitModelCalls)

	chatCalls := make([]ChatCall, len(m.ChatCalls))
	copy(chatCalls, m.ChatCalls)

	return initCalls, chatCalls
}
