// Package decision applies threshold and tie-break rules on top of the
// fused suspicion scores to pick a target for each action type, or to
// abstain. Abstaining is a normal outcome, never an error.
package decision

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/jwebster45206/wolf-agent/pkg/fusion"
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/scoring"
)

// ResultKind tags why a decision landed where it did.
type ResultKind string

const (
	ResultTarget       ResultKind = "target"
	ResultNoCandidates ResultKind = "no_candidates"   // nothing eligible to act on
	ResultBelowGate    ResultKind = "below_threshold" // candidates existed, none good enough
	ResultNoResource   ResultKind = "no_resource"     // one-shot ability already spent
)

// Result is the outcome of one decision. Target is empty on abstain.
type Result struct {
	Target     string             `json:"target,omitempty"`
	Kind       ResultKind         `json:"kind"`
	Reason     string             `json:"reason"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Confidence float64            `json:"confidence"`
}

// trustSelfSabotage is the trust floor below which the witch withholds
// the antidote: saving a near-certain wolf is worse than the loss.
const trustSelfSabotage = 15.0

// Policy makes decisions for one session using the shared engines.
type Policy struct {
	scorer *scoring.Scorer
	fusion *fusion.Engine
	opt    *Optimizer
	logger *slog.Logger
}

// NewPolicy wires a policy from its engines. All dependencies are
// explicit; nothing is read from globals.
func NewPolicy(scorer *scoring.Scorer, fus *fusion.Engine, opt *Optimizer, logger *slog.Logger) *Policy {
	return &Policy{scorer: scorer, fusion: fus, opt: opt, logger: logger}
}

// Decide picks a target for the action, or abstains. candidates may be
// nil, in which case all living entities (minus self) are considered.
// externalProbs optionally carries per-candidate wolf probabilities
// from an external estimator on [0,1]; missing entries fall back to
// pure rule-based scoring.
func (p *Policy) Decide(gc *game.Context, action game.Action, candidates []string, externalProbs map[string]float64) Result {
	if flag := action.Consumes(&gc.Resources); flag != nil && !*flag {
		return Result{Kind: ResultNoResource, Reason: fmt.Sprintf("%s already used this game", action)}
	}

	eligible := p.filter(gc, action, candidates)
	if len(eligible) == 0 {
		return Result{Kind: ResultNoCandidates, Reason: "no eligible candidates"}
	}

	// Oracle-verified hostiles are targeted before any scoring. A
	// wolf-side self skips this: its "verified hostiles" are teammates.
	if action.Hostile() && !gc.Role.IsWolf() {
		if id, ok := verifiedHostile(gc, eligible); ok {
			p.consume(gc, action, id)
			return Result{
				Target:     id,
				Kind:       ResultTarget,
				Reason:     fmt.Sprintf("%s is a verified wolf", id),
				Confidence: 1.0,
			}
		}
	}

	switch action {
	case game.ActionSave:
		return p.decideSave(gc, eligible)
	case game.ActionShoot:
		if res, ok := p.decideRevenge(gc, eligible); ok {
			return res
		}
	}

	scores := make(map[string]float64, len(eligible))
	for _, id := range eligible {
		e := gc.Entity(id)
		var raw float64
		switch action {
		case game.ActionGuard:
			raw = p.scorer.ProtectScore(e, gc)
		case game.ActionCheck:
			raw = p.scorer.InfoScore(e, gc)
		default:
			raw = p.scorer.Score(e, gc, action)
		}
		var ext *float64
		if prob, ok := externalProbs[id]; ok {
			ext = &prob
		}
		scores[id] = p.fusion.Fuse(raw, ext, e, gc)
	}

	target, top := argmax(scores)
	confidence := p.fusion.Confidence(scores)

	threshold := p.opt.ThresholdFor(action)
	if top < threshold.MinScore || confidence < threshold.MinConfidence {
		return Result{
			Kind:       ResultBelowGate,
			Reason:     fmt.Sprintf("best score %.1f under threshold %.1f (confidence %.2f)", top, threshold.MinScore, confidence),
			Scores:     scores,
			Confidence: confidence,
		}
	}

	p.consume(gc, action, target)
	return Result{
		Target:     target,
		Kind:       ResultTarget,
		Reason:     fmt.Sprintf("highest %s score %.1f", action, top),
		Scores:     scores,
		Confidence: confidence,
	}
}

// filter removes ineligible candidates: self, the dead, known allies
// for hostile actions, and the guard's previous target.
func (p *Policy) filter(gc *game.Context, action game.Action, candidates []string) []string {
	if candidates == nil {
		candidates = gc.AliveIDs()
	}
	var out []string
	for _, id := range candidates {
		// Self is a valid target only for self-protection.
		if id == gc.SelfID && action != game.ActionGuard && action != game.ActionSave {
			continue
		}
		if !gc.IsAlive(id) {
			continue
		}
		if action.Hostile() {
			if gc.Role.IsWolf() && (gc.IsWolfAlly(id) || id == gc.SelfID) {
				continue
			}
			if gc.Entity(id).Verified == game.AlignmentAlly && !gc.Role.IsWolf() {
				continue
			}
		}
		if action == game.ActionGuard && id == gc.LastGuarded {
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// decideSave applies the resource-scarcity override: the antidote goes
// to the first night's victim unconditionally, unless the victim's
// trust is already in self-sabotage territory.
func (p *Policy) decideSave(gc *game.Context, eligible []string) Result {
	victim := eligible[0]
	e := gc.Entity(victim)
	if e.Trust < trustSelfSabotage && e.Verified != game.AlignmentAlly {
		return Result{
			Kind:   ResultBelowGate,
			Reason: fmt.Sprintf("withholding antidote: %s trust %.0f suggests a wolf", victim, e.Trust),
		}
	}
	gc.Resources.Antidote = false
	return Result{
		Target:     victim,
		Kind:       ResultTarget,
		Reason:     fmt.Sprintf("saving %s with the antidote", victim),
		Confidence: 1.0,
	}
}

// decideRevenge checks whether the agent was voted out by an organized
// campaign: the eligible entity with the most votes cast against self
// becomes the shot target, if any such votes exist.
func (p *Policy) decideRevenge(gc *game.Context, eligible []string) (Result, bool) {
	var leader string
	var leaderVotes int
	for _, id := range eligible {
		var n int
		for _, v := range gc.Entity(id).Evidence.Votes {
			if v.Target == gc.SelfID {
				n++
			}
		}
		if n > leaderVotes || (n == leaderVotes && n > 0 && (leader == "" || id < leader)) {
			leader, leaderVotes = id, n
		}
	}
	if leaderVotes == 0 {
		return Result{}, false
	}
	gc.Resources.Shot = false
	return Result{
		Target:     leader,
		Kind:       ResultTarget,
		Reason:     fmt.Sprintf("%s led the vote against me (%d votes)", leader, leaderVotes),
		Confidence: 0.9,
	}, true
}

// consume spends the action's one-shot resource and tracks the guard's
// target for the no-repeat rule.
func (p *Policy) consume(gc *game.Context, action game.Action, target string) {
	if flag := action.Consumes(&gc.Resources); flag != nil {
		*flag = false
	}
	if action == game.ActionGuard {
		gc.LastGuarded = target
	}
}

// argmax returns the highest-scoring id. Exact ties break toward the
// lexicographically smallest id so results are deterministic.
func argmax(scores map[string]float64) (string, float64) {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := ids[0]
	for _, id := range ids[1:] {
		if scores[id] > scores[best] {
			best = id
		}
	}
	return best, scores[best]
}

// verifiedHostile returns the first (sorted) candidate the oracle has
// confirmed hostile.
func verifiedHostile(gc *game.Context, candidates []string) (string, bool) {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if gc.Entity(id).Verified == game.AlignmentHostile {
			return id, true
		}
	}
	return "", false
}
