package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/store"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Name() string   { return "stub" }
func (s *stubEmbedder) Dimension() int { return 2 }

func (s *stubEmbedder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

type stubStore struct {
	claims    []store.SearchResult
	evidence  []store.SearchResult
	err       error
	claimsCol string
}

func (s *stubStore) EnsureCollection(context.Context, string, int) error { return nil }
func (s *stubStore) Upsert(context.Context, string, []store.Record) error {
	return nil
}

func (s *stubStore) Search(_ context.Context, collection string, _ []float32, _ int) ([]store.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if collection == s.claimsCol {
		return s.claims, nil
	}
	return s.evidence, nil
}

func testStoreConfig() model.StoreConfig {
	return model.StoreConfig{
		ClaimsCollection:   "claims",
		EvidenceCollection: "evidence",
	}
}

func testRetrievalConfig() model.RetrievalConfig {
	return model.RetrievalConfig{
		TopKClaims:          10,
		TopKEvidence:        20,
		SimilarityThreshold: 0.5,
	}
}

func claimHit(id, text string, score float32) store.SearchResult {
	return store.SearchResult{
		Payload: store.Payload{
			ClaimID:    id,
			Text:       text,
			PaperID:    "p1",
			PaperTitle: "A Paper",
			Year:       2021,
			Venue:      "arXiv",
			Section:    model.SectionAbstract,
		},
		Score: score,
	}
}

func evidenceHit(id, text string, score float32) store.SearchResult {
	return store.SearchResult{
		Payload: store.Payload{
			EvidenceID: id,
			Text:       text,
			PaperID:    "p1",
			PaperTitle: "A Paper",
			Year:       2021,
			Venue:      "arXiv",
			Section:    model.SectionResults,
		},
		Score: score,
	}
}

func TestRetriever_ThresholdFilter(t *testing.T) {
	vectors := &stubStore{
		claimsCol: "claims",
		claims: []store.SearchResult{
			claimHit("c1", "strong match", 0.9),
			claimHit("c2", "weak match", 0.3),
		},
		evidence: []store.SearchResult{
			evidenceHit("e1", "borderline", 0.5),
			evidenceHit("e2", "below", 0.49),
		},
	}

	r := NewRetriever(&stubEmbedder{}, vectors, testStoreConfig(), testRetrievalConfig())
	result, err := r.Retrieve(context.Background(), "some query")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(result.RelatedClaims) != 1 {
		t.Fatalf("Expected 1 claim above threshold, got %d", len(result.RelatedClaims))
	}
	if result.RelatedClaims[0].ClaimID != "c1" {
		t.Errorf("Expected c1 to survive, got %q", result.RelatedClaims[0].ClaimID)
	}

	total := len(result.Evidence.Supporting) + len(result.Evidence.Contradicting) + len(result.Evidence.Neutral)
	if total != 1 {
		t.Errorf("Expected exactly the borderline item to survive, got %d items", total)
	}
}

func TestRetriever_ClaimOrderPreserved(t *testing.T) {
	vectors := &stubStore{
		claimsCol: "claims",
		claims: []store.SearchResult{
			claimHit("c1", "first", 0.9),
			claimHit("c2", "second", 0.8),
			claimHit("c3", "third", 0.7),
		},
	}

	r := NewRetriever(&stubEmbedder{}, vectors, testStoreConfig(), testRetrievalConfig())
	result, err := r.Retrieve(context.Background(), "some query")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	want := []string{"c1", "c2", "c3"}
	if len(result.RelatedClaims) != len(want) {
		t.Fatalf("Expected %d claims, got %d", len(want), len(result.RelatedClaims))
	}
	for i, id := range want {
		if result.RelatedClaims[i].ClaimID != id {
			t.Errorf("Claim %d = %q, want %q", i, result.RelatedClaims[i].ClaimID, id)
		}
	}
}

func TestRetriever_StanceBucketing(t *testing.T) {
	vectors := &stubStore{
		claimsCol: "claims",
		evidence: []store.SearchResult{
			evidenceHit("e1", "the approach achieved higher scores across every benchmark", 0.9),
			evidenceHit("e2", "the transformer model did not improve accuracy on any translation task", 0.8),
			evidenceHit("e3", "the corpus was collected between january and june", 0.7),
		},
	}

	r := NewRetriever(&stubEmbedder{}, vectors, testStoreConfig(), testRetrievalConfig())
	result, err := r.Retrieve(context.Background(), "the transformer model improves accuracy on translation benchmarks")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(result.Evidence.Supporting) != 1 || result.Evidence.Supporting[0].EvidenceID != "e1" {
		t.Errorf("Unexpected supporting bucket: %+v", result.Evidence.Supporting)
	}
	if len(result.Evidence.Contradicting) != 1 || result.Evidence.Contradicting[0].EvidenceID != "e2" {
		t.Errorf("Unexpected contradicting bucket: %+v", result.Evidence.Contradicting)
	}
	if len(result.Evidence.Neutral) != 1 || result.Evidence.Neutral[0].EvidenceID != "e3" {
		t.Errorf("Unexpected neutral bucket: %+v", result.Evidence.Neutral)
	}
	if result.Evidence.Supporting[0].Stance != model.StanceSupporting {
		t.Errorf("Stance field not set on bucketed evidence")
	}
}

func TestRetriever_PayloadCarriedThrough(t *testing.T) {
	vectors := &stubStore{
		claimsCol: "claims",
		claims:    []store.SearchResult{claimHit("c1", "some text", 0.9)},
	}

	r := NewRetriever(&stubEmbedder{}, vectors, testStoreConfig(), testRetrievalConfig())
	result, err := r.Retrieve(context.Background(), "some query")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	claim := result.RelatedClaims[0]
	if claim.Text != "some text" || claim.PaperID != "p1" || claim.PaperTitle != "A Paper" {
		t.Errorf("Claim payload not carried through: %+v", claim)
	}
	if claim.Year != 2021 || claim.Venue != "arXiv" || claim.Section != model.SectionAbstract {
		t.Errorf("Claim paper metadata not carried through: %+v", claim)
	}
	if claim.Similarity != 0.9 {
		t.Errorf("Similarity = %f, want 0.9", claim.Similarity)
	}
	if result.Query != "some query" {
		t.Errorf("Query = %q, want the original query", result.Query)
	}
}

func TestRetriever_EmptyResult(t *testing.T) {
	r := NewRetriever(&stubEmbedder{}, &stubStore{claimsCol: "claims"}, testStoreConfig(), testRetrievalConfig())
	result, err := r.Retrieve(context.Background(), "some query")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if result.RelatedClaims == nil || result.Evidence.Supporting == nil ||
		result.Evidence.Contradicting == nil || result.Evidence.Neutral == nil {
		t.Error("Expected empty slices, not nil, in an empty result")
	}
}

func TestRetriever_BlankQuery(t *testing.T) {
	// Both collaborators fail on any call, so a blank query must be
	// answered without touching the embedder or the store.
	embedder := &stubEmbedder{err: errors.New("'' is not a valid input")}
	vectors := &stubStore{claimsCol: "claims", err: errors.New("should not be searched")}
	r := NewRetriever(embedder, vectors, testStoreConfig(), testRetrievalConfig())

	for _, query := range []string{"", "   ", "\t\n"} {
		result, err := r.Retrieve(context.Background(), query)
		if err != nil {
			t.Fatalf("Retrieve(%q) failed: %v", query, err)
		}
		if result.Query != query {
			t.Errorf("Query = %q, want %q", result.Query, query)
		}
		if len(result.RelatedClaims) != 0 {
			t.Errorf("Expected no claims for %q, got %d", query, len(result.RelatedClaims))
		}
		if result.RelatedClaims == nil || result.Evidence.Supporting == nil ||
			result.Evidence.Contradicting == nil || result.Evidence.Neutral == nil {
			t.Errorf("Expected empty slices, not nil, for %q", query)
		}
	}
}

func TestRetriever_ErrorPropagation(t *testing.T) {
	embedErr := errors.New("embedding backend down")
	r := NewRetriever(&stubEmbedder{err: embedErr}, &stubStore{claimsCol: "claims"}, testStoreConfig(), testRetrievalConfig())
	if _, err := r.Retrieve(context.Background(), "q"); !errors.Is(err, embedErr) {
		t.Errorf("Expected embed error propagated, got %v", err)
	}

	searchErr := errors.New("store unavailable")
	r = NewRetriever(&stubEmbedder{}, &stubStore{claimsCol: "claims", err: searchErr}, testStoreConfig(), testRetrievalConfig())
	if _, err := r.Retrieve(context.Background(), "q"); !errors.Is(err, searchErr) {
		t.Errorf("Expected search error propagated, got %v", err)
	}
}
