package trust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/wolf-agent/pkg/game"
)

func TestUpdate_DecayTowardBounds(t *testing.T) {
	en := NewEngine(nil)

	// Two strong negative reports from a reliable source. Decay shrinks
	// as trust falls, so the second hit lands softer than the first.
	e := game.NewEntity("felix")
	got := en.Update(e, -60, 0.9, 1.0)
	assert.InDelta(t, 23.0, got, 0.001)

	got = en.Update(e, -60, 0.9, 1.0)
	assert.InDelta(t, 10.58, got, 0.001)
}

func TestUpdate_PositiveDecayNearCeiling(t *testing.T) {
	en := NewEngine(nil)

	e := game.NewEntity("iris")
	e.Trust = 95

	// (100-95)/100 is below the decay floor, so 0.1 applies.
	got := en.Update(e, 10, 1.0, 1.0)
	assert.InDelta(t, 96.0, got, 0.001)
}

func TestUpdate_TrendReversalHalved(t *testing.T) {
	en := NewEngine(nil)

	e := game.NewEntity("piotr")
	got := en.Update(e, 20, 1.0, 1.0)
	assert.InDelta(t, 60.0, got, 0.001)

	// History trends positive; this negative evidence lands at half
	// strength: -20 * 0.6 decay / 2 = -6.
	got = en.Update(e, -20, 1.0, 1.0)
	assert.InDelta(t, 54.0, got, 0.001)
}

func TestUpdate_ClampsAtBounds(t *testing.T) {
	en := NewEngine(nil)

	e := game.NewEntity("wanda")
	e.Trust = 5
	got := en.Update(e, -100, 1.0, 1.0)
	assert.Equal(t, 0.0, got)

	e = game.NewEntity("silas")
	e.Trust = 98
	for i := 0; i < 5; i++ {
		got = en.Update(e, 100, 1.0, 1.0)
	}
	assert.Equal(t, 100.0, got)
}

func TestUpdate_VerifiedShortCircuits(t *testing.T) {
	en := NewEngine(nil)

	hostile := game.NewEntity("greta")
	hostile.Verified = game.AlignmentHostile
	assert.Equal(t, 0.0, en.Update(hostile, 100, 1.0, 1.0))
	assert.Empty(t, hostile.TrustHistory, "verified updates should not record deltas")

	ally := game.NewEntity("hugo")
	ally.Verified = game.AlignmentAlly
	assert.Equal(t, 100.0, en.Update(ally, -100, 1.0, 1.0))
}

func TestUpdate_WeightClamping(t *testing.T) {
	en := NewEngine(nil)

	tests := []struct {
		name        string
		confidence  float64
		reliability float64
		want        float64
	}{
		{"confidence above one clamps", 3.0, 1.0, 40.0},
		{"negative reliability clamps to zero", 1.0, -2.0, 50.0},
		{"NaN confidence degrades to one", math.NaN(), 1.0, 40.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := game.NewEntity("nadia")
			got := en.Update(e, -20, tt.confidence, tt.reliability)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestUpdate_HistoryBounded(t *testing.T) {
	en := NewEngine(nil)

	e := game.NewEntity("omar")
	for i := 0; i < 25; i++ {
		en.Update(e, 5, 0.5, 0.5)
	}
	assert.Len(t, e.TrustHistory, game.TrustHistoryLimit)
}
