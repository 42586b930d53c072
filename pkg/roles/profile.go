// Package roles configures the shared scoring/decision engine per
// game role. Every role runs the same engine; what differs is a data
// profile: which actions the role may take, and weight or threshold
// overrides. Wolf-side play inverts the trust axis through weights,
// not through separate code paths.
package roles

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/scoring"
)

// Profile is the per-role engine configuration.
type Profile struct {
	Role       game.Role                          `yaml:"role"`
	Actions    []game.Action                      `yaml:"actions"`
	Weights    scoring.Weights                    `yaml:"weights"`
	Thresholds map[game.Action]decision.Threshold `yaml:"thresholds"`
}

// Allows reports whether the role may take the action.
func (p *Profile) Allows(action game.Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Validate checks a profile for internal consistency. Used by the
// validate CLI before a profile file is deployed.
func (p *Profile) Validate() error {
	if p.Role == "" {
		return fmt.Errorf("profile has no role")
	}
	if len(p.Actions) == 0 {
		return fmt.Errorf("profile %s has no actions", p.Role)
	}
	if !p.Allows(game.ActionVote) {
		return fmt.Errorf("profile %s cannot vote; every role votes", p.Role)
	}
	for action, t := range p.Thresholds {
		if !p.Allows(action) {
			return fmt.Errorf("profile %s has a threshold for disallowed action %s", p.Role, action)
		}
		if t.Floor > t.Ceiling {
			return fmt.Errorf("profile %s action %s: floor %.1f above ceiling %.1f", p.Role, action, t.Floor, t.Ceiling)
		}
		if t.MinScore < t.Floor || t.MinScore > t.Ceiling {
			return fmt.Errorf("profile %s action %s: min_score %.1f outside [%.1f, %.1f]", p.Role, action, t.MinScore, t.Floor, t.Ceiling)
		}
	}
	return nil
}

// LoadProfile reads a role profile from a YAML file. Omitted weight
// and threshold sections fall back to the role's built-in defaults.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var raw struct {
		Role       game.Role                          `yaml:"role"`
		Actions    []game.Action                      `yaml:"actions"`
		Weights    *scoring.Weights                   `yaml:"weights"`
		Thresholds map[game.Action]decision.Threshold `yaml:"thresholds"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	if raw.Role == "" {
		return nil, fmt.Errorf("profile file %s has no role", path)
	}

	p := DefaultProfile(raw.Role)
	if len(raw.Actions) > 0 {
		p.Actions = raw.Actions
	}
	if raw.Weights != nil {
		p.Weights = *raw.Weights
	}
	for action, t := range raw.Thresholds {
		p.Thresholds[action] = t
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DefaultProfile returns the built-in profile for a role.
func DefaultProfile(role game.Role) Profile {
	p := Profile{
		Role:       role,
		Actions:    []game.Action{game.ActionVote},
		Weights:    scoring.DefaultWeights(),
		Thresholds: decision.DefaultThresholds(),
	}

	switch role {
	case game.RoleSeer:
		p.Actions = append(p.Actions, game.ActionCheck)
	case game.RoleWitch:
		p.Actions = append(p.Actions, game.ActionSave, game.ActionPoison)
	case game.RoleGuard:
		p.Actions = append(p.Actions, game.ActionGuard)
	case game.RoleHunter:
		p.Actions = append(p.Actions, game.ActionShoot)
	case game.RoleWolf:
		p.Actions = append(p.Actions, game.ActionKill)
		p.Weights = wolfWeights(p.Weights)
	case game.RoleWolfKing:
		p.Actions = append(p.Actions, game.ActionKill, game.ActionShoot)
		p.Weights = wolfWeights(p.Weights)
	}
	return p
}

// wolfWeights retunes the villager weights for wolf-side targeting:
// the threat axis flips, so trusted, credible, well-spoken villagers
// become the priority, and deception signals (which point at fellow
// wolves as often as not) stop mattering.
func wolfWeights(w scoring.Weights) scoring.Weights {
	w.TrustScale = -0.7 // high trust now raises the score
	w.TrustExtreme = 0
	w.TrustLow = 0
	w.TrustBelowNeutral = 0
	w.TrustHigh = -20 // bonus, not penalty, for trusted targets

	w.TrendDecline = 0
	w.TrendRise = 0

	w.VoteAccurate = -12 // accurate voters are dangerous to wolves
	w.VoteWrong = -4

	w.SpeechLowLogic = -4
	w.SpeechLowInfo = -4
	w.SpeechLowStrategy = -2
	w.SpeechHighQual = -25   // subtracted, so strong speakers gain 25
	w.SpeechPersuasive = -15 // likewise
	w.SpeechStrategic = -12  // strategic players threaten the pack most

	w.Injection = 0
	w.FalseQuote = 0
	w.Contradiction = 0
	w.Reversal = 0
	w.Bandwagon = 0

	w.UnprovenClaim = 45 // claimed seer or witch dies first
	w.ConflictingClaim = 10

	w.DefendedBySuspect = 0
	w.AccusedByTrusted = 0

	w.OracleHostile = 0 // a "verified wolf" is a teammate
	w.OracleAlly = -60  // confirmed villagers are prime targets

	w.RetaliationRisk = 35 // hunters shoot back; pick softer targets
	return w
}
