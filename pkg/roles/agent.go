package roles

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/fusion"
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/scoring"
)

// Agent bundles the engine instances configured for one role. Handlers
// create one per request from the session's role; the optimizer is the
// only piece shared across sessions.
type Agent struct {
	Profile Profile
	Scorer  *scoring.Scorer
	Policy  *decision.Policy
}

// NewAgent wires the shared engine for a profile. opt carries the
// cross-session adaptive thresholds and may not be nil.
func NewAgent(profile Profile, opt *decision.Optimizer, fus *fusion.Engine, logger *slog.Logger) *Agent {
	scorer := scoring.NewScorer(profile.Weights)
	return &Agent{
		Profile: profile,
		Scorer:  scorer,
		Policy:  decision.NewPolicy(scorer, fus, opt, logger),
	}
}

// Decide runs the role-checked decision for an action.
func (a *Agent) Decide(gc *game.Context, action game.Action, candidates []string, externalProbs map[string]float64) (decision.Result, error) {
	if !a.Profile.Allows(action) {
		return decision.Result{}, fmt.Errorf("role %s cannot perform action %s", a.Profile.Role, action)
	}
	return a.Policy.Decide(gc, action, candidates, externalProbs), nil
}
