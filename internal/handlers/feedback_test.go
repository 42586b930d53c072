package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

func postFeedback(t *testing.T, h http.Handler, id uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id.String()+"/feedback", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestFeedbackHandler_RecordsOutcome(t *testing.T) {
	store := storage.NewMockStorage()
	opts := decision.NewOptimizers(nil)
	h := NewFeedbackHandler(store, opts, testLogger())
	gc := seedSession(t, store, game.RoleSeer)

	for i := 0; i < 10; i++ {
		w := postFeedback(t, h, gc.ID, `{"action":"vote","score":55,"success":true}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	// Ten straight successes loosen the seer's vote gate by one step.
	opt := opts.For(game.RoleSeer, decision.DefaultThresholds())
	assert.Equal(t, 38.0, opt.ThresholdFor(game.ActionVote).MinScore)
}

func TestFeedbackHandler_Validation(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewFeedbackHandler(store, decision.NewOptimizers(nil), testLogger())
	gc := seedSession(t, store, game.RoleSeer)

	w := postFeedback(t, h, gc.ID, `{"success":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "action is required")

	w = postFeedback(t, h, uuid.New(), `{"action":"vote","success":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+gc.ID.String()+"/feedback", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
