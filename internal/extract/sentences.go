package extract

import "strings"

// Segmenter splits text into an ordered sequence of sentences.
// Implementations range from a linguistic sentence tokenizer to the
// punctuation fallback below; extractors treat them as equivalent.
type Segmenter interface {
	Segment(text string) []string
}

// PunctSegmenter is the degraded-mode segmenter: it splits on a
// sentence-ending punctuation mark followed by whitespace.
type PunctSegmenter struct{}

// NewPunctSegmenter creates the fallback segmenter
func NewPunctSegmenter() *PunctSegmenter {
	return &PunctSegmenter{}
}

// Segment splits text into sentences
func (s *PunctSegmenter) Segment(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Only break when whitespace follows, to avoid splitting
			// decimals and abbreviations mid-token
			if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t') {
				if sentence := strings.TrimSpace(current.String()); sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if sentence := strings.TrimSpace(current.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}

	return sentences
}
