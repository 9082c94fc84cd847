package model

import "fmt"

// Claim represents a result-asserting sentence extracted from a paper's
// abstract or conclusion. Paper fields are denormalized at creation time
// so a stored claim renders without a paper lookup.
type Claim struct {
	ClaimID    string    `json:"claim_id"`
	Text       string    `json:"text"`
	PaperID    string    `json:"paper_id"`
	PaperTitle string    `json:"paper_title"`
	Year       int       `json:"year"`
	Venue      string    `json:"venue"`
	Section    Section   `json:"section"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// NewClaim builds a claim from a paper sentence. The identifier is a
// stable function of (paper, section, sentence index) so re-ingesting
// identical text produces the same record identity.
func NewClaim(p Paper, section Section, sentenceIdx int, text string) Claim {
	return Claim{
		ClaimID:    recordID(p.PaperID, section, sentenceIdx),
		Text:       text,
		PaperID:    p.PaperID,
		PaperTitle: p.Title,
		Year:       p.Year,
		Venue:      p.Venue,
		Section:    section,
	}
}

func recordID(paperID string, section Section, sentenceIdx int) string {
	return fmt.Sprintf("%s_%s_%d", paperID, section, sentenceIdx)
}
