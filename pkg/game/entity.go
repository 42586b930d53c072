package game

// Role is a werewolf game role.
type Role string

const (
	RoleVillager Role = "villager"
	RoleSeer     Role = "seer"
	RoleWitch    Role = "witch"
	RoleGuard    Role = "guard"
	RoleHunter   Role = "hunter"
	RoleWolf     Role = "wolf"
	RoleWolfKing Role = "wolfking"
)

// IsWolf reports whether the role is on the wolf side.
func (r Role) IsWolf() bool {
	return r == RoleWolf || r == RoleWolfKing
}

// CanRetaliate reports whether the role shoots back when eliminated.
func (r Role) CanRetaliate() bool {
	return r == RoleHunter || r == RoleWolfKing
}

// Alignment is a ground-truth label supplied by an oracle mechanic
// (e.g. a Seer check). Empty means unverified.
type Alignment string

const (
	AlignmentUnknown Alignment = ""
	AlignmentAlly    Alignment = "ally"
	AlignmentHostile Alignment = "hostile"
)

// VoteRecord is one vote cast by an entity during a day phase.
// TargetHostile is filled in later, once the target's true alignment
// becomes known; nil means still unknown.
type VoteRecord struct {
	Round         int    `json:"round"`
	Target        string `json:"target"`
	TargetHostile *bool  `json:"target_hostile,omitempty"`
}

// SpeechScore holds the per-dimension quality scores the evidence
// classifier extracts from one speech, each on a 0-10 scale.
type SpeechScore struct {
	Logic       float64 `json:"logic"`
	Information float64 `json:"information"`
	Persuasion  float64 `json:"persuasion"`
	Strategy    float64 `json:"strategy"`
}

// Evidence accumulates classifier output for one entity over a session.
type Evidence struct {
	InjectionCount     int `json:"injection_count,omitempty"`
	FalseQuoteCount    int `json:"false_quote_count,omitempty"`
	ContradictionCount int `json:"contradiction_count,omitempty"`
	ReversalCount      int `json:"reversal_count,omitempty"`
	BandwagonCount     int `json:"bandwagon_count,omitempty"`

	ClaimedRole Role `json:"claimed_role,omitempty"`
	ClaimRound  int  `json:"claim_round,omitempty"`

	Votes  []VoteRecord  `json:"votes,omitempty"`
	Speech []SpeechScore `json:"speech,omitempty"`

	// Social network: ids of entities that defended or accused this one.
	DefendedBy []string `json:"defended_by,omitempty"`
	AccusedBy  []string `json:"accused_by,omitempty"`

	SuspectTiming bool `json:"suspect_timing,omitempty"`
}

// AnomalyCount is the total number of behavioral-anomaly instances
// recorded for the entity.
func (e *Evidence) AnomalyCount() int {
	return e.InjectionCount + e.FalseQuoteCount + e.ContradictionCount +
		e.ReversalCount + e.BandwagonCount
}

const (
	// TrustNeutral is the starting trust for a newly observed entity.
	TrustNeutral = 50.0
	// TrustMin and TrustMax bound the trust scale.
	TrustMin = 0.0
	TrustMax = 100.0

	// TrustHistoryLimit bounds the per-entity delta history.
	TrustHistoryLimit = 10
)

// Entity is one tracked game participant.
type Entity struct {
	ID           string    `json:"id"`
	Trust        float64   `json:"trust"`
	TrustHistory []float64 `json:"trust_history,omitempty"`
	Evidence     Evidence  `json:"evidence"`
	Verified     Alignment `json:"verified,omitempty"`
}

// NewEntity creates an entity at neutral trust with no evidence.
func NewEntity(id string) *Entity {
	return &Entity{
		ID:    id,
		Trust: TrustNeutral,
	}
}

// RecordDelta appends an applied trust delta to the entity's history,
// truncating from the front at TrustHistoryLimit.
func (e *Entity) RecordDelta(delta float64) {
	e.TrustHistory = append(e.TrustHistory, delta)
	if len(e.TrustHistory) > TrustHistoryLimit {
		e.TrustHistory = e.TrustHistory[len(e.TrustHistory)-TrustHistoryLimit:]
	}
}

// RecentTrend returns the mean of the last n recorded deltas,
// or 0 if the history is empty.
func (e *Entity) RecentTrend(n int) float64 {
	h := e.TrustHistory
	if len(h) == 0 || n <= 0 {
		return 0
	}
	if len(h) > n {
		h = h[len(h)-n:]
	}
	var sum float64
	for _, d := range h {
		sum += d
	}
	return sum / float64(len(h))
}
