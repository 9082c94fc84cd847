package extract

import (
	"regexp"
	"strings"

	"github.com/claimscope/claimscope/internal/model"
)

// claimPatterns match result-reporting phrasing typical of abstracts
// and conclusions. Applied to lowercased sentences.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwe (show|demonstrate|present|propose|introduce|achieve|improve)\b`),
	regexp.MustCompile(`\bour (method|approach|model|system|framework) (achieves|outperforms|improves)\b`),
	regexp.MustCompile(`\bresults (show|demonstrate|indicate|suggest)\b`),
	regexp.MustCompile(`\b(significantly|substantially) (better|higher|lower|faster) than\b`),
	regexp.MustCompile(`\bstate-of-the-art\b`),
	regexp.MustCompile(`\b(f1 score|accuracy|precision|recall|bleu|rouge)\b`),
}

// ClaimExtractor selects claim-bearing sentences from a paper's
// abstract and conclusion
type ClaimExtractor struct {
	cfg       model.ExtractConfig
	segmenter Segmenter
	keywords  []string
}

// NewClaimExtractor creates a new claim extractor. A nil segmenter
// falls back to punctuation splitting.
func NewClaimExtractor(cfg model.ExtractConfig, segmenter Segmenter) *ClaimExtractor {
	if segmenter == nil {
		segmenter = NewPunctSegmenter()
	}
	return &ClaimExtractor{
		cfg:       cfg,
		segmenter: segmenter,
		keywords: []string{
			"we show", "we demonstrate", "outperforms", "achieves",
		},
	}
}

// Extract returns all claim sentences from the paper, abstract first,
// then conclusion, in sentence order. Empty sections yield no claims.
// The paper is never mutated.
func (e *ClaimExtractor) Extract(paper model.Paper) []model.Claim {
	var claims []model.Claim
	claims = append(claims, e.extractSection(paper, model.SectionAbstract, paper.Abstract)...)
	claims = append(claims, e.extractSection(paper, model.SectionConclusion, paper.Conclusion)...)
	return claims
}

func (e *ClaimExtractor) extractSection(paper model.Paper, section model.Section, text string) []model.Claim {
	if text == "" {
		return nil
	}

	var claims []model.Claim
	for i, sentence := range e.segmenter.Segment(text) {
		if e.isClaim(sentence) {
			claims = append(claims, model.NewClaim(paper, section, i, strings.TrimSpace(sentence)))
		}
	}
	return claims
}

// isClaim applies the length bounds, then the indicator patterns, then
// the keyword fallback
func (e *ClaimExtractor) isClaim(sentence string) bool {
	if len(sentence) < e.cfg.MinClaimLength || len(sentence) > e.cfg.MaxClaimLength {
		return false
	}

	lower := strings.ToLower(sentence)
	for _, pattern := range claimPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	for _, keyword := range e.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return false
}
