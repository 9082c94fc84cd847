package extract

import (
	"regexp"
	"strings"

	"github.com/claimscope/claimscope/internal/model"
)

// evidencePatterns match measurement reporting typical of results and
// discussion sections. Applied to lowercased sentences.
var evidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(achieved|obtained|reached|measured|observed|found)\b`),
	regexp.MustCompile(`\b\d+(\.\d+)?%`),
	regexp.MustCompile(`\b(improved|increased|decreased|reduced) by\b`),
	regexp.MustCompile(`\b(bleu|rouge|f1|accuracy|precision|recall) (score )?(of |is )\d+`),
	regexp.MustCompile(`\b(training|inference) time\b`),
	regexp.MustCompile(`\bexperiments? (show|showed|demonstrate)\b`),
	regexp.MustCompile(`\b(table|figure) \d+ shows\b`),
}

var numericToken = regexp.MustCompile(`\d+(\.\d+)?`)

// EvidenceExtractor selects measurement-bearing sentences from a
// paper's results and discussion
type EvidenceExtractor struct {
	cfg       model.ExtractConfig
	segmenter Segmenter
	keywords  []string
}

// NewEvidenceExtractor creates a new evidence extractor. A nil
// segmenter falls back to punctuation splitting.
func NewEvidenceExtractor(cfg model.ExtractConfig, segmenter Segmenter) *EvidenceExtractor {
	if segmenter == nil {
		segmenter = NewPunctSegmenter()
	}
	return &EvidenceExtractor{
		cfg:       cfg,
		segmenter: segmenter,
		keywords: []string{
			"score", "accuracy", "performance", "result",
		},
	}
}

// Extract returns all evidence sentences from the paper, results first,
// then discussion, in sentence order. Empty sections yield no evidence.
func (e *EvidenceExtractor) Extract(paper model.Paper) []model.Evidence {
	var evidence []model.Evidence
	evidence = append(evidence, e.extractSection(paper, model.SectionResults, paper.Results)...)
	evidence = append(evidence, e.extractSection(paper, model.SectionDiscussion, paper.Discussion)...)
	return evidence
}

func (e *EvidenceExtractor) extractSection(paper model.Paper, section model.Section, text string) []model.Evidence {
	if text == "" {
		return nil
	}

	var evidence []model.Evidence
	for i, sentence := range e.segmenter.Segment(text) {
		if e.isEvidence(sentence) {
			evidence = append(evidence, model.NewEvidence(paper, section, i, strings.TrimSpace(sentence)))
		}
	}
	return evidence
}

// isEvidence applies the length floor, then the indicator patterns,
// then the numeric-plus-keyword fallback
func (e *EvidenceExtractor) isEvidence(sentence string) bool {
	if len(sentence) < e.cfg.MinEvidenceLength {
		return false
	}

	lower := strings.ToLower(sentence)
	for _, pattern := range evidencePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	// A bare number still counts when paired with a performance keyword
	if numericToken.MatchString(lower) {
		for _, keyword := range e.keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}

	return false
}
