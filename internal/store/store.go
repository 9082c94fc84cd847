package store

import (
	"context"
	"hash/fnv"

	"github.com/claimscope/claimscope/internal/model"
)

// VectorStore persists embedding vectors with a fixed payload and
// answers nearest-neighbor queries by cosine similarity. Collections
// are append-only from the caller's perspective: upsert and search,
// never delete.
type VectorStore interface {
	// EnsureCollection creates the collection if missing, configured
	// for cosine similarity over vectors of the given dimension
	EnsureCollection(ctx context.Context, collection string, dimension int) error

	// Upsert writes records, idempotent per record ID
	Upsert(ctx context.Context, collection string, records []Record) error

	// Search returns up to topK results ordered by descending cosine
	// similarity to the query vector
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error)
}

// Record is a stored point: a 63-bit ID, its vector, and the payload
type Record struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// SearchResult is one search hit
type SearchResult struct {
	Payload Payload
	Score   float32
}

// Payload mirrors the denormalized Claim/Evidence fields stored beside
// each vector. Exactly one of ClaimID/EvidenceID is set, depending on
// the collection.
type Payload struct {
	ClaimID    string        `json:"claim_id,omitempty"`
	EvidenceID string        `json:"evidence_id,omitempty"`
	Text       string        `json:"text"`
	PaperID    string        `json:"paper_id"`
	PaperTitle string        `json:"paper_title"`
	Year       int           `json:"year"`
	Venue      string        `json:"venue"`
	Section    model.Section `json:"section"`
}

// PointID reduces a semantic record identifier to a 63-bit non-negative
// integer. FNV-1a is stable across runs and platforms, so re-ingesting
// the same record always upserts the same point.
func PointID(semanticID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(semanticID))
	return h.Sum64() &^ (1 << 63)
}

// ClaimRecord converts an embedded claim into a storable record
func ClaimRecord(c model.Claim) Record {
	return Record{
		ID:     PointID(c.ClaimID),
		Vector: c.Embedding,
		Payload: Payload{
			ClaimID:    c.ClaimID,
			Text:       c.Text,
			PaperID:    c.PaperID,
			PaperTitle: c.PaperTitle,
			Year:       c.Year,
			Venue:      c.Venue,
			Section:    c.Section,
		},
	}
}

// EvidenceRecord converts an embedded evidence item into a storable record
func EvidenceRecord(e model.Evidence) Record {
	return Record{
		ID:     PointID(e.EvidenceID),
		Vector: e.Embedding,
		Payload: Payload{
			EvidenceID: e.EvidenceID,
			Text:       e.Text,
			PaperID:    e.PaperID,
			PaperTitle: e.PaperTitle,
			Year:       e.Year,
			Venue:      e.Venue,
			Section:    e.Section,
		},
	}
}
