package evidence

import (
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/trust"
)

// classifierReliability weights rule-based output below LLM output in
// trust updates.
const (
	llmReliability  = 1.0
	ruleReliability = 0.8
)

// Apply folds a classified record into the session: accumulates the
// speaker's evidence, updates the social network of accused/defended
// entities, and runs the trust update. Returns the speaker's new trust.
func Apply(gc *game.Context, eng *trust.Engine, rec *Record) float64 {
	if rec == nil {
		return game.TrustNeutral
	}
	speaker := gc.Entity(rec.Speaker)
	rec.Merge(&speaker.Evidence)

	if rec.ClaimedRole != "" && speaker.Evidence.ClaimedRole == "" {
		speaker.Evidence.ClaimedRole = rec.ClaimedRole
		speaker.Evidence.ClaimRound = gc.Round
	}

	for _, id := range rec.Accuses {
		target := gc.Entity(id)
		target.Evidence.AccusedBy = appendUnique(target.Evidence.AccusedBy, rec.Speaker)
	}
	for _, id := range rec.Defends {
		target := gc.Entity(id)
		target.Evidence.DefendedBy = appendUnique(target.Evidence.DefendedBy, rec.Speaker)
	}

	reliability := llmReliability
	if rec.RuleBased {
		reliability = ruleReliability
	}
	return eng.Update(speaker, rec.DeriveDelta(), rec.Confidence, reliability)
}

// RecordVote appends a vote to the voter's history. The target's true
// alignment is backfilled by game.Context.Verify when it becomes known.
func RecordVote(gc *game.Context, voter, target string) {
	e := gc.Entity(voter)
	var hostile *bool
	if t := gc.Entity(target); t.Verified != game.AlignmentUnknown {
		h := t.Verified == game.AlignmentHostile
		hostile = &h
	}
	e.Evidence.Votes = append(e.Evidence.Votes, game.VoteRecord{
		Round:         gc.Round,
		Target:        target,
		TargetHostile: hostile,
	})
}
