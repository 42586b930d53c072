package game

// Phase describes how far the game has progressed. It is always derived
// from the round counter and the alive count, never set directly.
type Phase string

const (
	PhaseEarly    Phase = "early"
	PhaseMid      Phase = "mid"
	PhaseLate     Phase = "late"
	PhaseCritical Phase = "critical"
)

// Multiplier is the phase-dependent factor applied to raw suspicion
// scores. Early evidence is noisy and is dampened; late-game decisions
// carry more weight and are amplified.
func (p Phase) Multiplier() float64 {
	switch p {
	case PhaseEarly:
		return 0.75
	case PhaseLate:
		return 1.25
	case PhaseCritical:
		return 1.4
	default:
		return 1.0
	}
}

// derivePhase computes the phase from round number and alive count.
func derivePhase(round, alive int) Phase {
	switch {
	case alive <= 4:
		return PhaseCritical
	case round <= 2:
		return PhaseEarly
	case round <= 5 && alive > 6:
		return PhaseMid
	default:
		return PhaseLate
	}
}
