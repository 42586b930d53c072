// Package trust maintains the per-entity trust score that drives all
// downstream suspicion scoring. Trust lives on a 0-100 scale, starts
// neutral at 50, and is updated by confidence-weighted deltas with
// non-linear decay toward the bounds.
package trust

import (
	"log/slog"
	"math"

	"github.com/jwebster45206/wolf-agent/pkg/game"
)

const (
	// minDecay keeps extreme scores from becoming completely immovable.
	minDecay = 0.1
	// trendWindow is how many recent deltas feed trend-reversal damping.
	trendWindow = 3
)

// Engine applies evidence-driven trust updates to entities.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a trust engine. logger may be nil.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Update applies a raw trust delta weighted by classifier confidence
// and source reliability, returning the entity's new trust.
//
// The weighted delta decays as trust approaches the bound it is moving
// toward, so a single strong piece of evidence cannot pin a score at 0
// or 100. When recent history trends the opposite way, the adjustment
// is halved to smooth oscillation from contradictory evidence.
//
// Out-of-range confidence or reliability is clamped, never rejected.
// A verified alignment short-circuits everything: hostile pins trust
// at 0, ally at 100.
func (en *Engine) Update(e *game.Entity, rawDelta, confidence, sourceReliability float64) float64 {
	switch e.Verified {
	case game.AlignmentHostile:
		e.Trust = game.TrustMin
		return e.Trust
	case game.AlignmentAlly:
		e.Trust = game.TrustMax
		return e.Trust
	}

	confidence = clampUnit(confidence, en.logger, "confidence")
	sourceReliability = clampUnit(sourceReliability, en.logger, "source_reliability")

	weighted := rawDelta * confidence * sourceReliability

	var decay float64
	if weighted > 0 {
		decay = math.Max(minDecay, (game.TrustMax-e.Trust)/game.TrustMax)
	} else {
		decay = math.Max(minDecay, e.Trust/game.TrustMax)
	}
	adjusted := weighted * decay

	if trend := e.RecentTrend(trendWindow); trend != 0 && adjusted != 0 && !sameSign(trend, adjusted) {
		adjusted /= 2
	}

	e.Trust = clamp(e.Trust+adjusted, game.TrustMin, game.TrustMax)
	e.RecordDelta(adjusted)
	return e.Trust
}

func sameSign(a, b float64) bool {
	return (a > 0) == (b > 0)
}

// clampUnit forces a weight into [0,1]. NaN degrades to the neutral
// weight 1.0 so malformed input never zeroes out real evidence.
func clampUnit(v float64, logger *slog.Logger, name string) float64 {
	if math.IsNaN(v) {
		if logger != nil {
			logger.Warn("Invalid trust weight, using 1.0", "field", name)
		}
		return 1.0
	}
	if v < 0 || v > 1 {
		if logger != nil {
			logger.Warn("Trust weight out of range, clamping", "field", name, "value", v)
		}
	}
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
