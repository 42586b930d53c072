package evidence

import (
	"context"
	"regexp"
	"strings"

	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/promptguard"
)

// Classifier extracts a structured evidence record from one speech.
// history holds prior speech lines for the session, oldest first.
// Implementations must return a best-effort record rather than an
// error whenever they can; the pipeline never blocks on a classifier.
type Classifier interface {
	Analyze(ctx context.Context, speaker, text string, history []string) (*Record, error)
}

var (
	claimPattern = regexp.MustCompile(`(?i)\bi(?:'m| am)(?: the| a)? (seer|witch|guard|hunter|villager|wolf king|wolfking)\b`)

	accusePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bi (?:suspect|accuse|distrust)\s+(\w+)`),
		regexp.MustCompile(`(?i)\b(?:vote(?: for| out)?|lynch|eliminate)\s+(\w+)`),
		regexp.MustCompile(`(?i)\b(\w+) is (?:a|the) (?:wolf|werewolf)\b`),
	}
	defendPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bi (?:trust|believe|defend)\s+(\w+)`),
		regexp.MustCompile(`(?i)\b(\w+) is (?:innocent|good|a villager)\b`),
	}

	quotePattern     = regexp.MustCompile(`(?i)\b(\w+) said[^"“]*["“]([^"”]+)["”]`)
	bandwagonPattern = regexp.MustCompile(`(?i)\bi (?:agree with|will follow|second)\s+(\w+)`)
	reasonMarkers    = []string{"because", "since", "which means", "therefore", "that implies", "so "}
	gameTerms        = []string{"vote", "night", "seer", "check", "wolf", "claim", "round", "kill", "guard", "witch"}
)

// RuleClassifier is the regex/keyword fallback classifier. It is
// deliberately conservative: cheap signals only, no guessing.
type RuleClassifier struct {
	guard *promptguard.Guard
}

// NewRuleClassifier creates the rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{guard: promptguard.New()}
}

// Analyze never returns an error; the rule classifier is the floor the
// pipeline can always stand on.
func (rc *RuleClassifier) Analyze(_ context.Context, speaker, text string, history []string) (*Record, error) {
	rec := &Record{
		Speaker:    speaker,
		Confidence: 0.6,
		RuleBased:  true,
	}

	if hit, _ := rc.guard.Detect(text); hit {
		rec.Injection = true
		rec.Confidence = 0.9
	}

	if m := claimPattern.FindStringSubmatch(text); m != nil {
		rec.ClaimedRole = normalizeRole(m[1])
	}

	for _, re := range accusePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			rec.Accuses = appendUnique(rec.Accuses, m[1])
		}
	}
	for _, re := range defendPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			rec.Defends = appendUnique(rec.Defends, m[1])
		}
	}

	if m := bandwagonPattern.FindStringSubmatch(text); m != nil {
		rec.Bandwagon = true
		rec.Accuses = appendUnique(rec.Accuses, m[1])
	}

	// A quoted statement that appears nowhere in the transcript is
	// treated as a fabricated quote.
	for _, m := range quotePattern.FindAllStringSubmatch(text, -1) {
		if !historyContains(history, m[2]) {
			rec.FalseQuote = true
			break
		}
	}

	rec.Contradiction = contradictsHistory(speaker, rec.ClaimedRole, history)
	rec.Speech = scoreSpeech(text)
	return rec, nil
}

// contradictsHistory reports whether the speaker previously claimed a
// different role in the transcript.
func contradictsHistory(speaker string, claimed game.Role, history []string) bool {
	if claimed == "" {
		return false
	}
	prefix := strings.ToLower(speaker) + ":"
	for _, line := range history {
		lower := strings.ToLower(line)
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		if m := claimPattern.FindStringSubmatch(line); m != nil {
			if normalizeRole(m[1]) != claimed {
				return true
			}
		}
	}
	return false
}

// scoreSpeech derives rough quality sub-scores from surface features.
// The LLM classifier does much better; this keeps the pipeline fed
// when it is unavailable.
func scoreSpeech(text string) game.SpeechScore {
	lower := strings.ToLower(text)
	words := len(strings.Fields(text))

	var logic float64 = 3
	for _, marker := range reasonMarkers {
		if strings.Contains(lower, marker) {
			logic += 1.5
		}
	}

	var info float64
	for _, term := range gameTerms {
		if strings.Contains(lower, term) {
			info += 1
		}
	}

	persuasion := 3.0
	if words > 30 {
		persuasion += 2
	}
	if strings.Contains(text, "?") {
		persuasion += 1
	}

	strategy := 2.0
	if strings.Contains(lower, "if ") || strings.Contains(lower, "tomorrow") || strings.Contains(lower, "tonight") {
		strategy += 2
	}

	return game.SpeechScore{
		Logic:       capScore(logic),
		Information: capScore(info),
		Persuasion:  capScore(persuasion),
		Strategy:    capScore(strategy),
	}
}

func capScore(v float64) float64 {
	if v > 10 {
		return 10
	}
	return v
}

func normalizeRole(s string) game.Role {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	return game.Role(s)
}

func appendUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}

func historyContains(history []string, quote string) bool {
	needle := strings.ToLower(strings.TrimSpace(quote))
	if needle == "" {
		return true
	}
	for _, line := range history {
		if strings.Contains(strings.ToLower(line), needle) {
			return true
		}
	}
	return false
}
