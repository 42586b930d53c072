package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running wolf-agent API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(format string, args ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence.
// Returns a list of actual test suites (expanded from the sequence if needed).
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	sessionID, err := r.createSession(ctx, suite.Session)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = sessionID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, sessionID, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep executes a single test step and checks expectations
func (r *Runner) runStep(ctx context.Context, sessionID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	var decided *decision.Result

	switch {
	case step.Event != nil:
		if err := r.postEvent(ctx, sessionID, *step.Event); err != nil {
			result.Error = fmt.Errorf("failed to post event: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	case step.Decide != nil:
		res, err := r.postDecide(ctx, sessionID, *step.Decide)
		if err != nil {
			result.Error = fmt.Errorf("failed to post decide: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		decided = res
		result.Target = res.Target
	default:
		result.Error = fmt.Errorf("step has neither event nor decide")
		result.Duration = time.Since(start)
		return result
	}

	gc, err := r.getSession(ctx, sessionID)
	if err != nil {
		result.Error = fmt.Errorf("failed to get session after step: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	if err := checkExpectations(step.Expectations, decided, gc); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) createSession(ctx context.Context, seed SessionSeed) (uuid.UUID, error) {
	body, err := r.doJSON(ctx, "POST", r.BaseURL+"/v1/sessions", seed, http.StatusCreated)
	if err != nil {
		return uuid.UUID{}, err
	}

	var gc game.Context
	if err := json.Unmarshal(body, &gc); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to decode created session: %w", err)
	}
	return gc.ID, nil
}

func (r *Runner) getSession(ctx context.Context, sessionID uuid.UUID) (*game.Context, error) {
	body, err := r.doJSON(ctx, "GET", r.BaseURL+"/v1/sessions/"+sessionID.String(), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var gc game.Context
	if err := json.Unmarshal(body, &gc); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &gc, nil
}

func (r *Runner) postEvent(ctx context.Context, sessionID uuid.UUID, event EventInput) error {
	_, err := r.doJSON(ctx, "POST", fmt.Sprintf("%s/v1/sessions/%s/events", r.BaseURL, sessionID), event, http.StatusOK)
	return err
}

func (r *Runner) postDecide(ctx context.Context, sessionID uuid.UUID, decide DecideInput) (*decision.Result, error) {
	body, err := r.doJSON(ctx, "POST", fmt.Sprintf("%s/v1/sessions/%s/decide", r.BaseURL, sessionID), decide, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var res decision.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode decision: %w", err)
	}
	return &res, nil
}

// doJSON sends a request with an optional JSON body and returns the
// response body after checking the expected status.
func (r *Runner) doJSON(ctx context.Context, method, url string, payload interface{}, wantStatus int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, string(body))
	}
	return body, nil
}

// checkExpectations validates the test expectations against the
// decision (if any) and the session state after the step.
func checkExpectations(exp Expectations, decided *decision.Result, gc *game.Context) error {
	if exp.Target != nil {
		if decided == nil {
			return fmt.Errorf("target expectation on a non-decide step")
		}
		if decided.Target != *exp.Target {
			return fmt.Errorf("expected target %q, got %q (reason: %s)", *exp.Target, decided.Target, decided.Reason)
		}
	}

	if exp.Kind != nil {
		if decided == nil {
			return fmt.Errorf("kind expectation on a non-decide step")
		}
		if string(decided.Kind) != *exp.Kind {
			return fmt.Errorf("expected kind %s, got %s (reason: %s)", *exp.Kind, decided.Kind, decided.Reason)
		}
	}

	if exp.MinConfidence != nil {
		if decided == nil {
			return fmt.Errorf("confidence expectation on a non-decide step")
		}
		if decided.Confidence < *exp.MinConfidence {
			return fmt.Errorf("expected confidence >= %.2f, got %.2f", *exp.MinConfidence, decided.Confidence)
		}
	}

	if len(exp.ReasonContains) > 0 {
		if decided == nil {
			return fmt.Errorf("reason expectation on a non-decide step")
		}
		lowerReason := strings.ToLower(decided.Reason)
		for _, expected := range exp.ReasonContains {
			if !strings.Contains(lowerReason, strings.ToLower(expected)) {
				return fmt.Errorf("expected reason to contain '%s', got: %s", expected, decided.Reason)
			}
		}
	}

	for id, bound := range exp.TrustBelow {
		e, ok := gc.Entities[id]
		if !ok {
			return fmt.Errorf("trust_below references unknown entity %s", id)
		}
		if e.Trust >= bound {
			return fmt.Errorf("expected %s trust below %.1f, got %.1f", id, bound, e.Trust)
		}
	}

	for id, bound := range exp.TrustAbove {
		e, ok := gc.Entities[id]
		if !ok {
			return fmt.Errorf("trust_above references unknown entity %s", id)
		}
		if e.Trust <= bound {
			return fmt.Errorf("expected %s trust above %.1f, got %.1f", id, bound, e.Trust)
		}
	}

	return nil
}
