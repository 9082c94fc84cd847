package stance

import (
	"regexp"
	"strings"

	"github.com/claimscope/claimscope/internal/model"
)

// Categorizer classifies an evidence sentence's stance toward a query.
// This is surface-level lexical classification, not entailment: rules
// run in a fixed order and the first one that fires decides. Ties and
// weak signals fall through to neutral.
type Categorizer struct {
	rules []rule
}

// rule inspects a (query, evidence) pair and returns a stance, or ""
// to pass to the next rule
type rule func(query, evidence string) model.Stance

var (
	negationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bnot\b`),
		regexp.MustCompile(`\bno\b`),
		regexp.MustCompile(`\bnever\b`),
		regexp.MustCompile(`\bfailed\b`),
		regexp.MustCompile(`\bunable\b`),
		regexp.MustCompile(`\bcannot\b`),
		regexp.MustCompile(`\bdidn't\b`),
	}

	wordToken = regexp.MustCompile(`\w+`)

	improvementTerms = []string{"better", "improve", "outperform", "higher"}
	declineTerms     = []string{"worse", "lower", "decline", "decrease"}

	supportingKeywords = []string{
		"achieved", "improved", "outperform", "better", "higher",
		"superior", "surpass", "exceed", "success", "effective",
		"gain", "increase", "enhance", "boost", "advance",
	}

	contradictingKeywords = []string{
		"failed", "worse", "lower", "inferior", "poor",
		"limitation", "drawback", "weakness", "decrease",
		"decline", "reduce", "degrade", "unable", "cannot",
		"ineffective", "unsuccessful",
	}
)

// NewCategorizer creates a categorizer with the standard rule order:
// negated-topic, directional mismatch, keyword scoring.
func NewCategorizer() *Categorizer {
	return &Categorizer{
		rules: []rule{
			negatedTopicRule,
			directionalMismatchRule,
			keywordScoreRule,
		},
	}
}

// Categorize returns the stance of evidence toward the query. Pure and
// deterministic; case-insensitive throughout.
func (c *Categorizer) Categorize(query, evidenceText string) model.Stance {
	queryLower := strings.ToLower(query)
	evidenceLower := strings.ToLower(evidenceText)

	for _, r := range c.rules {
		if s := r(queryLower, evidenceLower); s != "" {
			return s
		}
	}
	return model.StanceNeutral
}

// negatedTopicRule treats negation of a topic the query is
// specifically about as contradiction. The evidence must negate and
// share enough distinct word tokens with the query: more than 3, or
// for short queries at least 2 covering half the query's tokens.
func negatedTopicRule(query, evidence string) model.Stance {
	if !hasNegation(evidence) {
		return ""
	}

	queryWords := tokenSet(query)
	overlap := overlapCount(queryWords, evidence)
	if overlap > 3 || (overlap >= 2 && overlap*2 >= len(queryWords)) {
		return model.StanceContradicting
	}
	return ""
}

// directionalMismatchRule fires when the query claims improvement but
// the evidence reports decline
func directionalMismatchRule(query, evidence string) model.Stance {
	if containsAny(query, improvementTerms) && containsAny(evidence, declineTerms) {
		return model.StanceContradicting
	}
	return ""
}

// keywordScoreRule counts stance keywords in the evidence. A stance
// needs a strict majority and at least two hits; anything weaker is
// left for the neutral default.
func keywordScoreRule(_, evidence string) model.Stance {
	supporting := countKeywords(evidence, supportingKeywords)
	contradicting := countKeywords(evidence, contradictingKeywords)

	switch {
	case contradicting > supporting && contradicting >= 2:
		return model.StanceContradicting
	case supporting > contradicting && supporting >= 2:
		return model.StanceSupporting
	default:
		return ""
	}
}

func hasNegation(text string) bool {
	for _, pattern := range negationPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func tokenSet(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordToken.FindAllString(text, -1) {
		words[w] = true
	}
	return words
}

// overlapCount counts distinct tokens of text present in words
func overlapCount(words map[string]bool, text string) int {
	seen := make(map[string]bool)
	overlap := 0
	for _, w := range wordToken.FindAllString(text, -1) {
		if words[w] && !seen[w] {
			seen[w] = true
			overlap++
		}
	}
	return overlap
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func countKeywords(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}
