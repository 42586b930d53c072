// Package evidence turns free-text speech into the structured records
// the trust and scoring engines consume. Classification is a pluggable
// capability: an LLM-backed classifier and a regex/keyword classifier
// both produce the same Record shape, and the LLM variant falls back
// to rules so a classifier outage never blocks a game turn.
package evidence

import "github.com/jwebster45206/wolf-agent/pkg/game"

// Record is the structured result of classifying one speech.
type Record struct {
	Speaker string `json:"speaker"`

	Injection     bool `json:"injection,omitempty"`
	FalseQuote    bool `json:"false_quote,omitempty"`
	Contradiction bool `json:"contradiction,omitempty"`
	Reversal      bool `json:"reversal,omitempty"`
	Bandwagon     bool `json:"bandwagon,omitempty"`

	ClaimedRole game.Role `json:"claimed_role,omitempty"`

	Accuses []string `json:"accuses,omitempty"`
	Defends []string `json:"defends,omitempty"`

	Speech game.SpeechScore `json:"speech"`

	// TrustDelta is the classifier's suggested raw trust adjustment.
	// Zero means "derive from the flags above".
	TrustDelta float64 `json:"trust_delta,omitempty"`
	// Confidence weights the trust update, on [0,1].
	Confidence float64 `json:"confidence"`

	// RuleBased marks records produced by the rule classifier, which
	// are weighted below LLM output in trust updates. Set by Analyze,
	// never parsed from classifier output.
	RuleBased bool `json:"-"`
}

// DeriveDelta computes a raw trust delta from the record's flags when
// the classifier did not supply one. Deception signals push trust
// down; substantive, well-reasoned speech nudges it up.
func (r *Record) DeriveDelta() float64 {
	if r.TrustDelta != 0 {
		return r.TrustDelta
	}
	var delta float64
	if r.Injection {
		delta -= 30
	}
	if r.FalseQuote {
		delta -= 20
	}
	if r.Contradiction {
		delta -= 12
	}
	if r.Reversal {
		delta -= 8
	}
	if r.Bandwagon {
		delta -= 4
	}
	quality := (r.Speech.Logic + r.Speech.Information) / 2
	switch {
	case quality >= 7:
		delta += 6
	case quality >= 5:
		delta += 2
	case quality > 0 && quality < 3:
		delta -= 4
	}
	return delta
}

// Merge folds the record into an entity's accumulated evidence.
func (r *Record) Merge(e *game.Evidence) {
	if r.Injection {
		e.InjectionCount++
	}
	if r.FalseQuote {
		e.FalseQuoteCount++
	}
	if r.Contradiction {
		e.ContradictionCount++
	}
	if r.Reversal {
		e.ReversalCount++
	}
	if r.Bandwagon {
		e.BandwagonCount++
	}
	if r.Speech != (game.SpeechScore{}) {
		e.Speech = append(e.Speech, r.Speech)
	}
}
