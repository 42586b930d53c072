// Package scoring computes a raw suspicion score per entity across a
// set of weighted, independently tunable dimensions. Higher means
// "target this entity". Scores are unbounded, typically in the
// -100..+250 range before fusion.
package scoring

import (
	"math"

	"github.com/jwebster45206/wolf-agent/pkg/game"
)

// Scorer evaluates entities against the session context. It holds no
// per-session state of its own; one scorer can serve many sessions.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the scorer's active weight set.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the raw suspicion score for one entity. Entities with
// no accumulated evidence score at the trust-derived baseline only;
// missing dimensions contribute zero, never a penalty.
func (s *Scorer) Score(e *game.Entity, gc *game.Context, action game.Action) float64 {
	if e == nil {
		return 0
	}

	score := s.trustScore(e)
	score += s.trendScore(e)
	score += s.voteScore(e)
	score += s.speechScore(e)
	score += s.anomalyScore(e)
	score += s.claimScore(e, gc)
	score += s.socialScore(e, gc)
	score += s.survivalScore(e, gc)
	score += s.oracleScore(e)

	if action.Hostile() {
		score -= s.retaliationRisk(e)
	}

	return score * gc.Phase().Multiplier()
}

// ProtectScore ranks candidates for protective actions (guard, save):
// how badly would losing this entity hurt the village. Trusted
// entities and credible special-role claims rank highest.
func (s *Scorer) ProtectScore(e *game.Entity, gc *game.Context) float64 {
	if e == nil {
		return 0
	}
	if e.Verified == game.AlignmentHostile {
		return -math.MaxFloat64 / 2
	}

	score := (e.Trust - game.TrustNeutral) * s.weights.ProtectTrust
	if claimsSpecialRole(e) {
		score += s.weights.ProtectClaim
	}
	if e.Verified == game.AlignmentAlly {
		score += s.weights.OracleAlly
	}
	return score * gc.Phase().Multiplier()
}

// InfoScore ranks candidates for the seer's check: expected
// information gain. Uncertain, talkative entities are worth checking;
// already-verified ones are worth nothing.
func (s *Scorer) InfoScore(e *game.Entity, gc *game.Context) float64 {
	if e == nil || e.Verified != game.AlignmentUnknown {
		return 0
	}
	// Peak value at trust 50, falling to zero at either extreme.
	uncertainty := 1 - math.Abs(e.Trust-game.TrustNeutral)/game.TrustNeutral
	score := uncertainty * 50

	// Claimants and accusers shape the day vote; knowing their
	// alignment is worth more.
	if claimsSpecialRole(e) {
		score += 25
	}
	score += math.Min(15, float64(len(e.Evidence.Speech))*3)
	return score
}

// trustScore maps trust to suspicion with an accelerating step
// function below the extreme thresholds.
func (s *Scorer) trustScore(e *game.Entity) float64 {
	w := s.weights
	score := (game.TrustNeutral - e.Trust) * w.TrustScale
	switch {
	case e.Trust < 15:
		score += w.TrustExtreme
	case e.Trust < 35:
		score += w.TrustLow
	case e.Trust < 50:
		score += w.TrustBelowNeutral
	case e.Trust > 70:
		score -= w.TrustHigh
	}
	return score
}

func (s *Scorer) trendScore(e *game.Entity) float64 {
	trend := e.RecentTrend(3)
	switch {
	case trend < -5:
		return s.weights.TrendDecline
	case trend > 5:
		return -s.weights.TrendRise
	default:
		return 0
	}
}

// voteScore rewards a record of voting against verified wolves and
// penalizes consistently wrong votes, bounded by VoteCap.
func (s *Scorer) voteScore(e *game.Entity) float64 {
	var score float64
	for _, v := range e.Evidence.Votes {
		if v.TargetHostile == nil {
			continue
		}
		if *v.TargetHostile {
			score -= s.weights.VoteAccurate
		} else {
			score += s.weights.VoteWrong
		}
	}
	return clampAbs(score, s.weights.VoteCap)
}

func (s *Scorer) speechScore(e *game.Entity) float64 {
	n := len(e.Evidence.Speech)
	if n == 0 {
		return 0
	}
	var logic, info, persuasion, strategy float64
	for _, sp := range e.Evidence.Speech {
		logic += sp.Logic
		info += sp.Information
		persuasion += sp.Persuasion
		strategy += sp.Strategy
	}
	logic /= float64(n)
	info /= float64(n)
	persuasion /= float64(n)
	strategy /= float64(n)

	var score float64
	if logic < 3 {
		score += s.weights.SpeechLowLogic
	}
	if info < 3 {
		score += s.weights.SpeechLowInfo
	}
	if strategy < 3 {
		score += s.weights.SpeechLowStrategy
	}
	if logic >= 7 && info >= 6 {
		score -= s.weights.SpeechHighQual
	}
	if persuasion >= 7 {
		score -= s.weights.SpeechPersuasive
	}
	if strategy >= 7 {
		score -= s.weights.SpeechStrategic
	}
	return score
}

// anomalyScore sums behavioral-anomaly contributions with diminishing
// per-instance increments: the first occurrence carries full weight,
// each further one decays by AnomalyDecay.
func (s *Scorer) anomalyScore(e *game.Entity) float64 {
	w := s.weights
	ev := e.Evidence
	return diminishing(ev.InjectionCount, w.Injection, w.AnomalyDecay) +
		diminishing(ev.FalseQuoteCount, w.FalseQuote, w.AnomalyDecay) +
		diminishing(ev.ContradictionCount, w.Contradiction, w.AnomalyDecay) +
		diminishing(ev.ReversalCount, w.Reversal, w.AnomalyDecay) +
		diminishing(ev.BandwagonCount, w.Bandwagon, w.AnomalyDecay)
}

// claimScore treats identity-claim anomalies as strong signals: an
// unproven special-role claim past the grace period, or the same role
// claimed by several living entities.
func (s *Scorer) claimScore(e *game.Entity, gc *game.Context) float64 {
	claimed := e.Evidence.ClaimedRole
	if claimed == "" || claimed == game.RoleVillager {
		return 0
	}
	var score float64
	if e.Verified == game.AlignmentUnknown &&
		gc.Round-e.Evidence.ClaimRound >= s.weights.ClaimGraceRounds {
		score += s.weights.UnprovenClaim
	}
	for id, other := range gc.Entities {
		if id == e.ID || !gc.IsAlive(id) {
			continue
		}
		if other.Evidence.ClaimedRole == claimed {
			score += s.weights.ConflictingClaim
			break
		}
	}
	return score
}

// socialScore adds bounded bonuses for being defended by suspicious
// entities or accused by trusted ones.
func (s *Scorer) socialScore(e *game.Entity, gc *game.Context) float64 {
	var score float64
	for _, id := range e.Evidence.DefendedBy {
		if d, ok := gc.Entities[id]; ok && d.Trust < 30 {
			score += s.weights.DefendedBySuspect
		}
	}
	for _, id := range e.Evidence.AccusedBy {
		if a, ok := gc.Entities[id]; ok && a.Trust > 70 {
			score += s.weights.AccusedByTrusted
		}
	}
	return math.Min(score, s.weights.SocialCap)
}

// survivalScore flags entities surviving anomalously deep into the
// game while the table shrinks around them, plus suspicious ability
// timing reported by the classifier.
func (s *Scorer) survivalScore(e *game.Entity, gc *game.Context) float64 {
	var score float64
	eliminated := len(gc.Eliminated)
	if gc.Round >= 4 && eliminated >= gc.AliveCount() && gc.IsAlive(e.ID) {
		score += s.weights.SurvivorAnomaly
	}
	if e.Evidence.SuspectTiming {
		score += s.weights.SuspectTiming
	}
	return score
}

func (s *Scorer) oracleScore(e *game.Entity) float64 {
	switch e.Verified {
	case game.AlignmentHostile:
		return s.weights.OracleHostile
	case game.AlignmentAlly:
		return -s.weights.OracleAlly
	default:
		return 0
	}
}

// retaliationRisk discounts hostile targeting of entities whose
// claimed role shoots back on elimination. The claim is unverified, so
// this is a soft penalty, not a filter.
func (s *Scorer) retaliationRisk(e *game.Entity) float64 {
	if e.Verified == game.AlignmentHostile {
		return 0
	}
	if e.Evidence.ClaimedRole.CanRetaliate() {
		return s.weights.RetaliationRisk
	}
	return 0
}

func claimsSpecialRole(e *game.Entity) bool {
	r := e.Evidence.ClaimedRole
	return r != "" && r != game.RoleVillager && !r.IsWolf()
}

// diminishing sums base * decay^i for i in [0,count).
func diminishing(count int, base, decay float64) float64 {
	var sum float64
	weight := base
	for i := 0; i < count; i++ {
		sum += weight
		weight *= decay
	}
	return sum
}

func clampAbs(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
