package model

// ScoredClaim is a related claim returned by retrieval, augmented with
// its query similarity. The score is query-dependent and never persisted.
type ScoredClaim struct {
	ClaimID    string  `json:"claim_id"`
	Text       string  `json:"text"`
	PaperID    string  `json:"paper_id"`
	PaperTitle string  `json:"paper_title"`
	Year       int     `json:"year"`
	Venue      string  `json:"venue"`
	Section    Section `json:"section"`
	Similarity float32 `json:"similarity_score"`
}

// ScoredEvidence is an evidence hit augmented with its query similarity
// and the stance assigned by the categorizer.
type ScoredEvidence struct {
	EvidenceID string  `json:"evidence_id"`
	Text       string  `json:"text"`
	PaperID    string  `json:"paper_id"`
	PaperTitle string  `json:"paper_title"`
	Year       int     `json:"year"`
	Venue      string  `json:"venue"`
	Section    Section `json:"section"`
	Similarity float32 `json:"similarity_score"`
	Stance     Stance  `json:"stance"`
}

// EvidenceBuckets groups retrieved evidence by stance, each bucket in
// descending similarity order.
type EvidenceBuckets struct {
	Supporting    []ScoredEvidence `json:"supporting"`
	Contradicting []ScoredEvidence `json:"contradicting"`
	Neutral       []ScoredEvidence `json:"neutral"`
}

// RetrievalResult is the complete answer for one query
type RetrievalResult struct {
	Query         string          `json:"query"`
	RelatedClaims []ScoredClaim   `json:"related_claims"`
	Evidence      EvidenceBuckets `json:"evidence"`
}

// IngestStats summarizes one ingestion run
type IngestStats struct {
	Papers        int `json:"papers"`
	PapersSkipped int `json:"papers_skipped,omitempty"`
	Claims        int `json:"claims_count"`
	Evidence      int `json:"evidence_count"`
}
