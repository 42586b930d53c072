// Package fusion blends the rule-based suspicion score with an
// optional externally supplied probability estimate (e.g. a trained
// classifier), and derives a confidence for the decision as a whole.
package fusion

import (
	"math"

	"github.com/jwebster45206/wolf-agent/pkg/game"
)

// Config holds the fusion tuning constants.
type Config struct {
	BaseRatio float64 `yaml:"base_ratio"` // starting weight toward the external estimate

	EarlyFactor    float64 `yaml:"early_factor"`    // external model undertrained early
	LateFactor     float64 `yaml:"late_factor"`     // external model strongest late
	EvidenceFactor float64 `yaml:"evidence_factor"` // abundant rule evidence wins
	DisagreeFactor float64 `yaml:"disagree_factor"` // large disagreement favors rules

	DisagreeThreshold float64 `yaml:"disagree_threshold"`
	StrongEvidenceMin int     `yaml:"strong_evidence_min"`

	MinRatio float64 `yaml:"min_ratio"`
	MaxRatio float64 `yaml:"max_ratio"`

	// Confidence blend weights: top score, gap to runner-up, spread.
	ConfidenceTop    float64 `yaml:"confidence_top"`
	ConfidenceGap    float64 `yaml:"confidence_gap"`
	ConfidenceSpread float64 `yaml:"confidence_spread"`
}

// DefaultConfig returns the baseline fusion tuning.
func DefaultConfig() Config {
	return Config{
		BaseRatio:         0.6,
		EarlyFactor:       0.6,
		LateFactor:        1.2,
		EvidenceFactor:    0.7,
		DisagreeFactor:    0.8,
		DisagreeThreshold: 40,
		StrongEvidenceMin: 3,
		MinRatio:          0.2,
		MaxRatio:          0.9,
		ConfidenceTop:     0.4,
		ConfidenceGap:     0.4,
		ConfidenceSpread:  0.2,
	}
}

// Engine fuses rule scores with external probability estimates.
type Engine struct {
	cfg Config
}

// NewEngine creates a fusion engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Fuse blends the rule score with an external probability on [0,1].
// A nil external estimate returns the rule score unchanged; the
// estimator is optional and its absence is a normal condition.
func (f *Engine) Fuse(ruleScore float64, externalProb *float64, e *game.Entity, gc *game.Context) float64 {
	if externalProb == nil {
		return ruleScore
	}
	external := clamp(*externalProb, 0, 1) * 100 // rescale to the rule score's range

	ratio := f.Ratio(ruleScore, external, e, gc)
	return ruleScore*(1-ratio) + external*ratio
}

// Ratio computes the context-sensitive blend ratio toward the external
// estimate. Always within [MinRatio, MaxRatio].
func (f *Engine) Ratio(ruleScore, external float64, e *game.Entity, gc *game.Context) float64 {
	ratio := f.cfg.BaseRatio

	switch gc.Phase() {
	case game.PhaseEarly:
		ratio *= f.cfg.EarlyFactor
	case game.PhaseLate, game.PhaseCritical:
		ratio *= f.cfg.LateFactor
	}

	if e != nil && e.Evidence.AnomalyCount() >= f.cfg.StrongEvidenceMin {
		ratio *= f.cfg.EvidenceFactor
	}

	if math.Abs(ruleScore-external) > f.cfg.DisagreeThreshold {
		ratio *= f.cfg.DisagreeFactor
	}

	return clamp(ratio, f.cfg.MinRatio, f.cfg.MaxRatio)
}

// Confidence rates a candidate score map on [0,1]. A decision is only
// confident when the top score is high in absolute terms, clearly
// separated from the runner-up, and the distribution has enough spread
// to carry information.
func (f *Engine) Confidence(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	var top, second float64
	top = math.Inf(-1)
	second = math.Inf(-1)
	var sum float64
	for _, s := range scores {
		sum += s
		if s > top {
			second = top
			top = s
		} else if s > second {
			second = s
		}
	}
	if len(scores) == 1 {
		second = 0
	}

	mean := sum / float64(len(scores))
	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	std := math.Sqrt(variance / float64(len(scores)))

	topNorm := clamp(top/200, 0, 1)
	gapNorm := clamp((top-second)/50, 0, 1)
	spreadNorm := clamp(std/40, 0, 1)

	return f.cfg.ConfidenceTop*topNorm +
		f.cfg.ConfidenceGap*gapNorm +
		f.cfg.ConfidenceSpread*spreadNorm
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
