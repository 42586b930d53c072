package scoring

// Weights holds every tunable constant in the multi-dimensional
// scorer. The defaults are empirically chosen magnitudes, not derived
// constants: same sign and rough ordering matter, the third decimal
// does not. Role profiles override individual fields via YAML.
type Weights struct {
	// Trust-derived step function.
	TrustExtreme      float64 `yaml:"trust_extreme"`       // trust < 15
	TrustLow          float64 `yaml:"trust_low"`           // trust < 35
	TrustBelowNeutral float64 `yaml:"trust_below_neutral"` // trust < 50
	TrustHigh         float64 `yaml:"trust_high"`          // trust > 70, negative contribution
	TrustScale        float64 `yaml:"trust_scale"`         // linear (50-trust) factor

	// Trend.
	TrendDecline float64 `yaml:"trend_decline"` // fast decline bonus
	TrendRise    float64 `yaml:"trend_rise"`    // fast rise penalty (applied negatively)

	// Historical vote accuracy.
	VoteAccurate float64 `yaml:"vote_accurate"` // per accurate vote, subtracted
	VoteWrong    float64 `yaml:"vote_wrong"`    // per wrong vote, added
	VoteCap      float64 `yaml:"vote_cap"`      // bound on total vote contribution

	// Speech quality (low quality raises suspicion).
	SpeechLowLogic    float64 `yaml:"speech_low_logic"`
	SpeechLowInfo     float64 `yaml:"speech_low_info"`
	SpeechLowStrategy float64 `yaml:"speech_low_strategy"`
	SpeechHighQual    float64 `yaml:"speech_high_quality"` // subtracted
	SpeechPersuasive  float64 `yaml:"speech_persuasive"`   // subtracted
	SpeechStrategic   float64 `yaml:"speech_strategic"`    // subtracted

	// Behavioral anomalies, first instance weighted most.
	Injection     float64 `yaml:"injection"`
	FalseQuote    float64 `yaml:"false_quote"`
	Contradiction float64 `yaml:"contradiction"`
	Reversal      float64 `yaml:"reversal"`
	Bandwagon     float64 `yaml:"bandwagon"`
	AnomalyDecay  float64 `yaml:"anomaly_decay"` // per-instance diminishing factor

	// Identity-claim anomalies.
	UnprovenClaim    float64 `yaml:"unproven_claim"`    // special-role claim without proof after grace rounds
	ConflictingClaim float64 `yaml:"conflicting_claim"` // same role claimed by multiple entities
	ClaimGraceRounds int     `yaml:"claim_grace_rounds"`

	// Social network.
	DefendedBySuspect float64 `yaml:"defended_by_suspect"`
	AccusedByTrusted  float64 `yaml:"accused_by_trusted"`
	SocialCap         float64 `yaml:"social_cap"`

	// Survival / timing.
	SurvivorAnomaly float64 `yaml:"survivor_anomaly"`
	SuspectTiming   float64 `yaml:"suspect_timing"`

	// Oracle override; dominates every other group combined.
	OracleHostile float64 `yaml:"oracle_hostile"`
	OracleAlly    float64 `yaml:"oracle_ally"` // subtracted

	// Retaliation risk: credible hunter/wolfking claim makes hostile
	// targeting counter-productive.
	RetaliationRisk float64 `yaml:"retaliation_risk"`

	// Protective scoring (guard/save targets).
	ProtectTrust float64 `yaml:"protect_trust"` // per trust point above neutral
	ProtectClaim float64 `yaml:"protect_claim"` // claimed special role bonus
}

// DefaultWeights returns the baseline villager-side tuning.
func DefaultWeights() Weights {
	return Weights{
		TrustExtreme:      60,
		TrustLow:          30,
		TrustBelowNeutral: 10,
		TrustHigh:         15,
		TrustScale:        0.6,

		TrendDecline: 12,
		TrendRise:    8,

		VoteAccurate: 8,
		VoteWrong:    10,
		VoteCap:      30,

		SpeechLowLogic:    8,
		SpeechLowInfo:     6,
		SpeechLowStrategy: 5,
		SpeechHighQual:    10,
		SpeechPersuasive:  5,
		SpeechStrategic:   4,

		Injection:     35,
		FalseQuote:    25,
		Contradiction: 15,
		Reversal:      10,
		Bandwagon:     6,
		AnomalyDecay:  0.6,

		UnprovenClaim:    25,
		ConflictingClaim: 40,
		ClaimGraceRounds: 2,

		DefendedBySuspect: 8,
		AccusedByTrusted:  6,
		SocialCap:         25,

		SurvivorAnomaly: 12,
		SuspectTiming:   10,

		OracleHostile: 180,
		OracleAlly:    180,

		RetaliationRisk: 20,

		ProtectTrust: 0.8,
		ProtectClaim: 30,
	}
}
