package decision

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wolf-agent/pkg/fusion"
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/scoring"
)

var roster = []string{
	"rose", "felix", "iris", "piotr", "wanda", "silas",
	"greta", "hugo", "nadia", "omar", "tessa", "yuri",
}

func newTestPolicy() *Policy {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPolicy(
		scoring.NewScorer(scoring.DefaultWeights()),
		fusion.NewEngine(fusion.DefaultConfig()),
		NewOptimizer(DefaultThresholds(), logger),
		logger,
	)
}

func TestDecide_NoResource(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleWitch, roster)
	gc.Resources.Poison = false

	res := p.Decide(gc, game.ActionPoison, nil, nil)
	assert.Equal(t, ResultNoResource, res.Kind)
	assert.Empty(t, res.Target)
}

func TestDecide_NoCandidates(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleVillager, roster)

	res := p.Decide(gc, game.ActionVote, []string{"rose"}, nil)
	assert.Equal(t, ResultNoCandidates, res.Kind, "self is not a vote target")

	gc.Eliminate("felix")
	res = p.Decide(gc, game.ActionVote, []string{"felix"}, nil)
	assert.Equal(t, ResultNoCandidates, res.Kind, "the dead are not vote targets")
}

func TestDecide_VerifiedHostileOverride(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleSeer, roster)
	gc.Verify("felix", game.AlignmentHostile)

	res := p.Decide(gc, game.ActionVote, nil, nil)
	assert.Equal(t, ResultTarget, res.Kind)
	assert.Equal(t, "felix", res.Target)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Contains(t, res.Reason, "verified wolf")
}

func TestDecide_OverrideConsumesResource(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleWitch, roster)
	gc.Verify("felix", game.AlignmentHostile)

	res := p.Decide(gc, game.ActionPoison, nil, nil)
	require.Equal(t, "felix", res.Target)
	assert.False(t, gc.Resources.Poison)

	res = p.Decide(gc, game.ActionPoison, nil, nil)
	assert.Equal(t, ResultNoResource, res.Kind)
}

func TestDecide_WolfIgnoresOracle(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleWolf, roster)
	gc.WolfAllies = []string{"felix"}
	gc.Verify("iris", game.AlignmentHostile) // a teammate from the wolf's view

	res := p.Decide(gc, game.ActionKill, nil, nil)
	// The pinned trust still makes iris the top-scored target, but
	// through the normal scoring path, not the oracle shortcut.
	require.Equal(t, ResultTarget, res.Kind)
	assert.Equal(t, "iris", res.Target)
	assert.Contains(t, res.Reason, "highest kill score")
	assert.NotContains(t, res.Reason, "verified wolf")
}

func TestDecide_WolfNeverTargetsPack(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleWolf, roster)
	gc.WolfAllies = []string{"felix"}
	gc.Entity("felix").Trust = 0

	res := p.Decide(gc, game.ActionKill, []string{"rose", "felix"}, nil)
	assert.Equal(t, ResultNoCandidates, res.Kind)
}

func TestDecide_BelowThreshold(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleVillager, roster)

	// Everyone at neutral trust: best score 0, vote gate 40.
	res := p.Decide(gc, game.ActionVote, nil, nil)
	assert.Equal(t, ResultBelowGate, res.Kind)
	assert.Empty(t, res.Target)
	assert.NotEmpty(t, res.Scores)
}

func TestDecide_VerifiedAllyExcluded(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleVillager, roster)
	gc.Verify("felix", game.AlignmentAlly)
	gc.Entity("iris").Trust = 5

	res := p.Decide(gc, game.ActionVote, []string{"felix", "iris"}, nil)
	require.Equal(t, ResultTarget, res.Kind)
	assert.Equal(t, "iris", res.Target)
	assert.NotContains(t, res.Scores, "felix")
}

func TestDecide_Save(t *testing.T) {
	t.Run("saves the victim", func(t *testing.T) {
		p := newTestPolicy()
		gc := game.NewContext("rose", game.RoleWitch, roster)

		res := p.Decide(gc, game.ActionSave, []string{"felix"}, nil)
		assert.Equal(t, ResultTarget, res.Kind)
		assert.Equal(t, "felix", res.Target)
		assert.False(t, gc.Resources.Antidote)
	})

	t.Run("withholds from a probable wolf", func(t *testing.T) {
		p := newTestPolicy()
		gc := game.NewContext("rose", game.RoleWitch, roster)
		gc.Entity("felix").Trust = 10

		res := p.Decide(gc, game.ActionSave, []string{"felix"}, nil)
		assert.Equal(t, ResultBelowGate, res.Kind)
		assert.True(t, gc.Resources.Antidote, "antidote kept for a better night")
	})

	t.Run("self save allowed", func(t *testing.T) {
		p := newTestPolicy()
		gc := game.NewContext("rose", game.RoleWitch, roster)

		res := p.Decide(gc, game.ActionSave, []string{"rose"}, nil)
		assert.Equal(t, "rose", res.Target)
	})
}

func TestDecide_Revenge(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleHunter, roster)
	gc.Entity("felix").Evidence.Votes = []game.VoteRecord{
		{Round: 1, Target: "rose"},
		{Round: 2, Target: "rose"},
	}
	gc.Entity("iris").Evidence.Votes = []game.VoteRecord{
		{Round: 2, Target: "rose"},
	}

	res := p.Decide(gc, game.ActionShoot, nil, nil)
	assert.Equal(t, ResultTarget, res.Kind)
	assert.Equal(t, "felix", res.Target)
	assert.Equal(t, 0.9, res.Confidence)
	assert.False(t, gc.Resources.Shot)
}

func TestDecide_RevengeNeedsVotes(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleHunter, roster)

	// Nobody voted against self: the shot falls back to scoring, and at
	// neutral trust nothing clears the conservative shoot gate.
	res := p.Decide(gc, game.ActionShoot, nil, nil)
	assert.Equal(t, ResultBelowGate, res.Kind)
	assert.True(t, gc.Resources.Shot, "shot only spent on a real target")
}

func TestDecide_GuardNoRepeat(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleGuard, roster)
	gc.Entity("felix").Trust = 80

	res := p.Decide(gc, game.ActionGuard, []string{"felix"}, nil)
	require.Equal(t, "felix", res.Target)
	assert.Equal(t, "felix", gc.LastGuarded)

	res = p.Decide(gc, game.ActionGuard, []string{"felix"}, nil)
	assert.Equal(t, ResultNoCandidates, res.Kind, "cannot guard the same player twice in a row")
}

func TestDecide_ExternalEstimate(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleVillager, roster)
	gc.StartRound(3)

	// Rules see nothing; a strong external wolf probability carries the
	// vote over the gate on its own. The 90-point disagreement pulls the
	// blend ratio to 0.6*0.8, so the fused score is 90*0.48.
	res := p.Decide(gc, game.ActionVote, []string{"felix", "iris"}, map[string]float64{"felix": 0.9})
	require.Equal(t, ResultTarget, res.Kind)
	assert.Equal(t, "felix", res.Target)
	assert.InDelta(t, 43.2, res.Scores["felix"], 0.001)
	assert.Equal(t, 0.0, res.Scores["iris"])
}

func TestDecide_TieBreaksLexicographically(t *testing.T) {
	p := newTestPolicy()
	gc := game.NewContext("rose", game.RoleSeer, roster)

	// Both candidates sit at identical peak uncertainty; the check has
	// no gate, so the tie resolves to the smaller id.
	res := p.Decide(gc, game.ActionCheck, []string{"iris", "felix"}, nil)
	require.Equal(t, ResultTarget, res.Kind)
	assert.Equal(t, "felix", res.Target)
}
