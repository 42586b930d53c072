package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

func TestSessionHandler_Create(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewSessionHandler(store, testLogger())

	body, _ := json.Marshal(CreateSessionRequest{
		SelfID:  "rose",
		Role:    "Witch",
		Players: []string{"rose", "felix", "iris"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var gc game.Context
	require.NoError(t, json.NewDecoder(w.Body).Decode(&gc))
	assert.Equal(t, game.RoleWitch, gc.Role, "role is lowercased")
	assert.Equal(t, "rose", gc.SelfID)
	assert.Len(t, gc.Entities, 3)
	assert.True(t, gc.Resources.Poison)

	stored, err := store.LoadSession(req.Context(), gc.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestSessionHandler_CreateValidation(t *testing.T) {
	h := NewSessionHandler(storage.NewMockStorage(), testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"no self_id", `{"role":"seer","players":["a","b"]}`},
		{"no role", `{"self_id":"rose","players":["a","b"]}`},
		{"one player", `{"self_id":"rose","role":"seer","players":["rose"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSessionHandler_CreateStorageError(t *testing.T) {
	store := storage.NewMockStorage()
	store.SaveErr = errors.New("redis down")
	h := NewSessionHandler(store, testLogger())

	body := `{"self_id":"rose","role":"seer","players":["rose","felix"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSessionHandler_Read(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewSessionHandler(store, testLogger())
	gc := seedSession(t, store, game.RoleSeer)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+gc.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got game.Context
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, gc.ID, got.ID)
}

func TestSessionHandler_ReadNotFound(t *testing.T) {
	h := NewSessionHandler(storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/nope", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_Delete(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewSessionHandler(store, testLogger())
	gc := seedSession(t, store, game.RoleSeer)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+gc.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	stored, err := store.LoadSession(req.Context(), gc.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h := NewSessionHandler(storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodPut, "/v1/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
