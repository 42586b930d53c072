package decision

import (
	"log/slog"
	"sync"

	"github.com/jwebster45206/wolf-agent/pkg/game"
)

// Threshold is the per-action gate a best candidate must clear.
// MinScore adapts over time within [Floor, Ceiling]; MinConfidence is
// static configuration.
type Threshold struct {
	MinScore      float64 `yaml:"min_score"`
	MinConfidence float64 `yaml:"min_confidence"`
	Floor         float64 `yaml:"floor"`
	Ceiling       float64 `yaml:"ceiling"`
	Step          float64 `yaml:"step"`
}

// DefaultThresholds returns the per-action gates. One-shot resources
// (poison, shoot) are gated far more conservatively than repeatable
// actions.
func DefaultThresholds() map[game.Action]Threshold {
	return map[game.Action]Threshold{
		game.ActionVote:   {MinScore: 40, MinConfidence: 0.3, Floor: 20, Ceiling: 70, Step: 2},
		game.ActionKill:   {MinScore: 30, MinConfidence: 0.25, Floor: 15, Ceiling: 60, Step: 2},
		game.ActionPoison: {MinScore: 80, MinConfidence: 0.5, Floor: 60, Ceiling: 120, Step: 2},
		game.ActionShoot:  {MinScore: 50, MinConfidence: 0.35, Floor: 30, Ceiling: 90, Step: 2},
		game.ActionSave:   {},
		game.ActionGuard:  {},
		game.ActionCheck:  {},
	}
}

const (
	outcomeWindowLimit = 100
	adjustEvery        = 10
	successRateLower   = 0.4
	successRateUpper   = 0.7
)

// Outcome is one decision's ground-truth result, delivered whenever
// the surrounding system learns it, possibly rounds later.
type Outcome struct {
	Action  game.Action `json:"action"`
	Score   float64     `json:"score"`
	Success bool        `json:"success"`
}

// Optimizer nudges per-action score thresholds based on a rolling
// window of decision outcomes: a high success rate loosens the gate, a
// low one tightens it. Outcomes arrive asynchronously; the optimizer
// is the one engine component shared across sessions, so it serializes
// its read-modify-write.
type Optimizer struct {
	mu          sync.Mutex
	thresholds  map[game.Action]Threshold
	window      map[game.Action][]Outcome
	sinceAdjust map[game.Action]int
	logger      *slog.Logger
}

// NewOptimizer creates an optimizer over the given starting
// thresholds. logger may be nil.
func NewOptimizer(thresholds map[game.Action]Threshold, logger *slog.Logger) *Optimizer {
	ts := make(map[game.Action]Threshold, len(thresholds))
	for a, t := range thresholds {
		ts[a] = t
	}
	return &Optimizer{
		thresholds:  ts,
		window:      make(map[game.Action][]Outcome),
		sinceAdjust: make(map[game.Action]int),
		logger:      logger,
	}
}

// ThresholdFor returns the current threshold for an action. Unknown
// actions get a zero threshold (no gate).
func (o *Optimizer) ThresholdFor(action game.Action) Threshold {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.thresholds[action]
}

// RecordOutcome appends a decision outcome and re-tunes the action's
// threshold every adjustEvery samples.
func (o *Optimizer) RecordOutcome(out Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	w := append(o.window[out.Action], out)
	if len(w) > outcomeWindowLimit {
		w = w[len(w)-outcomeWindowLimit:]
	}
	o.window[out.Action] = w

	o.sinceAdjust[out.Action]++
	if o.sinceAdjust[out.Action] < adjustEvery {
		return
	}
	o.sinceAdjust[out.Action] = 0
	o.adjust(out.Action)
}

// adjust applies the success-rate rule. Caller holds the lock.
func (o *Optimizer) adjust(action game.Action) {
	w := o.window[action]
	if len(w) == 0 {
		return
	}
	var successes int
	for _, out := range w {
		if out.Success {
			successes++
		}
	}
	rate := float64(successes) / float64(len(w))

	t := o.thresholds[action]
	before := t.MinScore
	switch {
	case rate >= successRateUpper:
		t.MinScore -= t.Step // doing well, be more aggressive
	case rate < successRateLower:
		t.MinScore += t.Step // missing too often, be conservative
	default:
		return
	}
	if t.MinScore < t.Floor {
		t.MinScore = t.Floor
	}
	if t.MinScore > t.Ceiling {
		t.MinScore = t.Ceiling
	}
	o.thresholds[action] = t

	if o.logger != nil && t.MinScore != before {
		o.logger.Info("Adjusted decision threshold",
			"action", action,
			"success_rate", rate,
			"from", before,
			"to", t.MinScore)
	}
}
