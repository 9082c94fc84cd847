package model

// Evidence represents a measured-outcome sentence extracted from a
// paper's results or discussion. Same shape as Claim but a distinct
// identifier namespace (evidence IDs never collide with claim IDs
// because the two record kinds live in separate collections).
type Evidence struct {
	EvidenceID string    `json:"evidence_id"`
	Text       string    `json:"text"`
	PaperID    string    `json:"paper_id"`
	PaperTitle string    `json:"paper_title"`
	Year       int       `json:"year"`
	Venue      string    `json:"venue"`
	Section    Section   `json:"section"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// NewEvidence builds an evidence record from a paper sentence
func NewEvidence(p Paper, section Section, sentenceIdx int, text string) Evidence {
	return Evidence{
		EvidenceID: recordID(p.PaperID, section, sentenceIdx),
		Text:       text,
		PaperID:    p.PaperID,
		PaperTitle: p.Title,
		Year:       p.Year,
		Venue:      p.Venue,
		Section:    section,
	}
}

// Stance classifies evidence relative to a query
type Stance string

const (
	StanceSupporting    Stance = "supporting"
	StanceContradicting Stance = "contradicting"
	StanceNeutral       Stance = "neutral"
)
