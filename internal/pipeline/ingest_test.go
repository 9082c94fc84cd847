package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/claimscope/claimscope/internal/embed"
	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/store"
)

type failingEmbedder struct {
	dimension int
}

func (f *failingEmbedder) Name() string   { return "failing" }
func (f *failingEmbedder) Dimension() int { return f.dimension }

func (f *failingEmbedder) Encode(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func ingestTestConfig() *model.Config {
	cfg := model.DefaultConfig()
	return cfg
}

func ingestTestPaper(id string) model.Paper {
	return model.Paper{
		PaperID:    id,
		Title:      "A Test Paper",
		Year:       2021,
		Venue:      "arXiv",
		Abstract:   "Our method achieves state-of-the-art results on benchmark X.",
		Results:    "The model achieved 95% accuracy on the held-out test set.",
		Conclusion: "We show that the approach generalizes to unseen domains too.",
	}
}

func TestIngestionPipeline_ProcessPapers(t *testing.T) {
	cfg := ingestTestConfig()
	embedder := embed.NewMockProvider(16)
	vectors := store.NewMemoryStore()

	p := NewIngestionPipeline(embedder, vectors, cfg)
	ctx := context.Background()

	if err := p.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections failed: %v", err)
	}

	stats, err := p.ProcessPapers(ctx, []model.Paper{ingestTestPaper("2101.00001_v1")})
	if err != nil {
		t.Fatalf("ProcessPapers failed: %v", err)
	}

	if stats.Papers != 1 || stats.PapersSkipped != 0 {
		t.Errorf("Unexpected paper counts: %+v", stats)
	}
	if stats.Claims != 2 {
		t.Errorf("Expected 2 claims (abstract and conclusion), got %d", stats.Claims)
	}
	if stats.Evidence != 1 {
		t.Errorf("Expected 1 evidence statement, got %d", stats.Evidence)
	}

	if got := vectors.Count(cfg.Store.ClaimsCollection); got != stats.Claims {
		t.Errorf("Claims collection has %d records, want %d", got, stats.Claims)
	}
	if got := vectors.Count(cfg.Store.EvidenceCollection); got != stats.Evidence {
		t.Errorf("Evidence collection has %d records, want %d", got, stats.Evidence)
	}
}

func TestIngestionPipeline_Idempotent(t *testing.T) {
	cfg := ingestTestConfig()
	vectors := store.NewMemoryStore()
	p := NewIngestionPipeline(embed.NewMockProvider(16), vectors, cfg)
	ctx := context.Background()

	if err := p.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections failed: %v", err)
	}

	papers := []model.Paper{ingestTestPaper("2101.00001_v1")}
	if _, err := p.ProcessPapers(ctx, papers); err != nil {
		t.Fatalf("First ingest failed: %v", err)
	}
	first := vectors.Count(cfg.Store.ClaimsCollection)

	if _, err := p.ProcessPapers(ctx, papers); err != nil {
		t.Fatalf("Second ingest failed: %v", err)
	}
	if got := vectors.Count(cfg.Store.ClaimsCollection); got != first {
		t.Errorf("Re-ingest grew the collection from %d to %d records", first, got)
	}
}

func TestIngestionPipeline_EmptyBatch(t *testing.T) {
	cfg := ingestTestConfig()
	p := NewIngestionPipeline(embed.NewMockProvider(16), store.NewMemoryStore(), cfg)
	ctx := context.Background()

	if err := p.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections failed: %v", err)
	}

	stats, err := p.ProcessPapers(ctx, nil)
	if err != nil {
		t.Fatalf("ProcessPapers failed on empty batch: %v", err)
	}
	if stats.Papers != 0 || stats.Claims != 0 || stats.Evidence != 0 {
		t.Errorf("Expected zero stats for empty batch, got %+v", stats)
	}
}

func TestIngestionPipeline_PaperWithoutMatches(t *testing.T) {
	cfg := ingestTestConfig()
	vectors := store.NewMemoryStore()
	p := NewIngestionPipeline(embed.NewMockProvider(16), vectors, cfg)
	ctx := context.Background()

	if err := p.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections failed: %v", err)
	}

	paper := model.Paper{
		PaperID:  "2101.00002_v1",
		Title:    "A Survey",
		Abstract: "Machine translation has been studied for several decades now.",
	}
	stats, err := p.ProcessPapers(ctx, []model.Paper{paper})
	if err != nil {
		t.Fatalf("ProcessPapers failed: %v", err)
	}
	if stats.Claims != 0 || stats.Evidence != 0 {
		t.Errorf("Expected no extractions, got %+v", stats)
	}
	if stats.PapersSkipped != 0 {
		t.Errorf("A paper without matches is processed, not skipped: %+v", stats)
	}
}

func TestIngestionPipeline_EmbeddingFailureAborts(t *testing.T) {
	cfg := ingestTestConfig()
	vectors := store.NewMemoryStore()
	p := NewIngestionPipeline(&failingEmbedder{dimension: 16}, vectors, cfg)
	ctx := context.Background()

	if err := p.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections failed: %v", err)
	}

	if _, err := p.ProcessPapers(ctx, []model.Paper{ingestTestPaper("2101.00001_v1")}); err == nil {
		t.Fatal("Expected ProcessPapers to fail when embedding fails")
	}
	if got := vectors.Count(cfg.Store.ClaimsCollection); got != 0 {
		t.Errorf("Expected nothing stored after embed failure, got %d records", got)
	}
}
