package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedSession stores a fresh session and returns it.
func seedSession(t *testing.T, store *storage.MockStorage, role game.Role) *game.Context {
	t.Helper()
	gc := game.NewContext("rose", role, []string{"rose", "felix", "iris", "piotr", "wanda", "silas", "greta", "hugo"})
	if err := store.SaveSession(context.Background(), gc.ID, gc); err != nil {
		t.Fatal(err)
	}
	return gc
}

func TestSessionIDFromPath(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		path   string
		suffix string
		want   uuid.UUID
		ok     bool
	}{
		{"bare id", "/v1/sessions/" + id.String(), "", id, true},
		{"with suffix", "/v1/sessions/" + id.String() + "/events", "events", id, true},
		{"trailing slash", "/v1/sessions/" + id.String() + "/", "", id, true},
		{"no id", "/v1/sessions/", "", uuid.Nil, false},
		{"suffix only", "/v1/sessions/events", "events", uuid.Nil, false},
		{"garbage", "/v1/sessions/not-a-uuid", "", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sessionIDFromPath(tt.path, tt.suffix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
