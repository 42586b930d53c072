package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateSessionRequest matches the API request structure
type CreateSessionRequest struct {
	SelfID     string   `json:"self_id"`
	Role       string   `json:"role"`
	Players    []string `json:"players"`
	WolfAllies []string `json:"wolf_allies,omitempty"`
}

// EventRequest matches the API event body
type EventRequest struct {
	Type      string `json:"type"`
	Actor     string `json:"actor,omitempty"`
	Target    string `json:"target,omitempty"`
	Text      string `json:"text,omitempty"`
	Round     int    `json:"round,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

// EventResponse mirrors the API's pipeline report
type EventResponse struct {
	SessionID string   `json:"session_id"`
	Round     int      `json:"round"`
	Phase     string   `json:"phase"`
	Trust     *float64 `json:"trust,omitempty"`
}

type SpeechResponse struct {
	Speech string `json:"speech"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func createSession(client *http.Client, baseURL string, req CreateSessionRequest) (*game.Context, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var gc game.Context
	if err := json.Unmarshal(body, &gc); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &gc, nil
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*game.Context, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get session: %s", errorResp.Error)
	}

	var gc game.Context
	if err := json.Unmarshal(body, &gc); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &gc, nil
}

func postEvent(client *http.Client, baseURL string, sessionID uuid.UUID, event EventRequest) (*EventResponse, error) {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/events", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("event rejected: %s", errorResp.Error)
	}

	var eventResp EventResponse
	if err := json.Unmarshal(body, &eventResp); err != nil {
		return nil, fmt.Errorf("failed to parse event response: %w", err)
	}
	return &eventResp, nil
}

func postDecide(client *http.Client, baseURL string, sessionID uuid.UUID, action string) (*decision.Result, error) {
	jsonData, err := json.Marshal(map[string]string{"action": action})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/decide", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("decide rejected: %s", errorResp.Error)
	}

	var result decision.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse decision response: %w", err)
	}
	return &result, nil
}

func postSpeech(client *http.Client, baseURL string, sessionID uuid.UUID, stance string) (string, error) {
	jsonData, err := json.Marshal(map[string]string{"stance": stance})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/speech", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("speech rejected: %s", errorResp.Error)
	}

	var speechResp SpeechResponse
	if err := json.Unmarshal(body, &speechResp); err != nil {
		return "", fmt.Errorf("failed to parse speech response: %w", err)
	}
	return speechResp.Speech, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
