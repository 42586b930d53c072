package runner

import (
	"time"

	"github.com/google/uuid"
)

// TestSuite defines a complete integration test scenario.
// Can either be a regular test with Steps, or a suite that references other Cases.
type TestSuite struct {
	Name    string      `json:"name"`
	Session SessionSeed `json:"session,omitempty"` // Used for regular tests
	Steps   []TestStep  `json:"steps,omitempty"`   // Used for regular tests
	Cases   []string    `json:"cases,omitempty"`   // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// SessionSeed describes the session created for a test run.
type SessionSeed struct {
	SelfID     string   `json:"self_id"`
	Role       string   `json:"role"`
	Players    []string `json:"players"`
	WolfAllies []string `json:"wolf_allies,omitempty"`
}

// TestStep is one interaction with the agent: either an event relayed
// into the session, or a decision request. Exactly one of Event and
// Decide should be set.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Event        *EventInput  `json:"event,omitempty"`
	Decide       *DecideInput `json:"decide,omitempty"`
	Expectations Expectations `json:"expect"`
}

// EventInput mirrors the events endpoint body.
type EventInput struct {
	Type      string `json:"type"`
	Actor     string `json:"actor,omitempty"`
	Target    string `json:"target,omitempty"`
	Text      string `json:"text,omitempty"`
	Round     int    `json:"round,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

// DecideInput mirrors the decide endpoint body.
type DecideInput struct {
	Action        string             `json:"action"`
	Candidates    []string           `json:"candidates,omitempty"`
	ExternalProbs map[string]float64 `json:"external_probs,omitempty"`
}

// Expectations defines what to check after a test step executes.
// Decision checks apply only to decide steps; trust checks apply to
// any step, read back from session state.
type Expectations struct {
	// Decision properties
	Target         *string  `json:"target,omitempty"`          // Chosen target (empty string means abstain)
	Kind           *string  `json:"kind,omitempty"`            // Result kind: target, no_candidates, below_threshold, no_resource
	MinConfidence  *float64 `json:"min_confidence,omitempty"`  // Lower bound on decision confidence
	ReasonContains []string `json:"reason_contains,omitempty"` // Substrings expected in the reason

	// Trust bounds checked against session state after the step
	TrustBelow map[string]float64 `json:"trust_below,omitempty"`
	TrustAbove map[string]float64 `json:"trust_above,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Target   string // chosen target for decide steps
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Session  uuid.UUID // ID of the session used for this test
}
