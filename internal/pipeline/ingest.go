package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/claimscope/claimscope/internal/embed"
	"github.com/claimscope/claimscope/internal/extract"
	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/store"
)

// IngestionPipeline runs the straight-line ingestion path: extract
// claims and evidence from each paper, batch-embed both record sets,
// and upsert them into the vector store.
//
// Extraction is isolated per paper: a paper whose text trips up the
// segmenter is skipped, not fatal. Embedding and storage failures
// abort the whole batch.
type IngestionPipeline struct {
	claimExtractor    *extract.ClaimExtractor
	evidenceExtractor *extract.EvidenceExtractor
	embedder          embed.Provider
	vectors           store.VectorStore
	storeCfg          model.StoreConfig
	verbose           bool
}

// NewIngestionPipeline creates a pipeline over the given collaborators
func NewIngestionPipeline(embedder embed.Provider, vectors store.VectorStore, cfg *model.Config) *IngestionPipeline {
	return &IngestionPipeline{
		claimExtractor:    extract.NewClaimExtractor(cfg.Extract, nil),
		evidenceExtractor: extract.NewEvidenceExtractor(cfg.Extract, nil),
		embedder:          embedder,
		vectors:           vectors,
		storeCfg:          cfg.Store,
		verbose:           cfg.Output.Verbose,
	}
}

// EnsureCollections creates the claim and evidence collections if missing
func (p *IngestionPipeline) EnsureCollections(ctx context.Context) error {
	dim := p.embedder.Dimension()
	if err := p.vectors.EnsureCollection(ctx, p.storeCfg.ClaimsCollection, dim); err != nil {
		return fmt.Errorf("ensure claims collection: %w", err)
	}
	if err := p.vectors.EnsureCollection(ctx, p.storeCfg.EvidenceCollection, dim); err != nil {
		return fmt.Errorf("ensure evidence collection: %w", err)
	}
	return nil
}

// ProcessPapers ingests a batch of papers end-to-end
func (p *IngestionPipeline) ProcessPapers(ctx context.Context, papers []model.Paper) (*model.IngestStats, error) {
	stats := &model.IngestStats{Papers: len(papers)}

	var allClaims []model.Claim
	var allEvidence []model.Evidence

	for _, paper := range papers {
		claims, evidence, err := p.extractOne(paper)
		if err != nil {
			stats.PapersSkipped++
			fmt.Fprintf(os.Stderr, "Warning: skipping paper %s: %v\n", paper.PaperID, err)
			continue
		}
		allClaims = append(allClaims, claims...)
		allEvidence = append(allEvidence, evidence...)
	}

	stats.Claims = len(allClaims)
	stats.Evidence = len(allEvidence)

	if p.verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d claims and %d evidence statements from %d papers\n",
			stats.Claims, stats.Evidence, stats.Papers-stats.PapersSkipped)
	}

	if err := p.embedClaims(ctx, allClaims); err != nil {
		return nil, fmt.Errorf("embed claims: %w", err)
	}
	if err := p.embedEvidence(ctx, allEvidence); err != nil {
		return nil, fmt.Errorf("embed evidence: %w", err)
	}

	if len(allClaims) > 0 {
		records := make([]store.Record, len(allClaims))
		for i, c := range allClaims {
			records[i] = store.ClaimRecord(c)
		}
		if err := p.vectors.Upsert(ctx, p.storeCfg.ClaimsCollection, records); err != nil {
			return nil, fmt.Errorf("store claims: %w", err)
		}
	}

	if len(allEvidence) > 0 {
		records := make([]store.Record, len(allEvidence))
		for i, e := range allEvidence {
			records[i] = store.EvidenceRecord(e)
		}
		if err := p.vectors.Upsert(ctx, p.storeCfg.EvidenceCollection, records); err != nil {
			return nil, fmt.Errorf("store evidence: %w", err)
		}
	}

	return stats, nil
}

// extractOne runs both extractors over a single paper, converting a
// panic in segmentation or classification into a skippable error
func (p *IngestionPipeline) extractOne(paper model.Paper) (claims []model.Claim, evidence []model.Evidence, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extraction panic: %v", r)
		}
	}()

	claims = p.claimExtractor.Extract(paper)
	evidence = p.evidenceExtractor.Extract(paper)
	return claims, evidence, nil
}

// embedClaims attaches vectors to claims in one batched encode call
func (p *IngestionPipeline) embedClaims(ctx context.Context, claims []model.Claim) error {
	if len(claims) == 0 {
		return nil
	}

	texts := make([]string, len(claims))
	for i, c := range claims {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.Encode(ctx, texts)
	if err != nil {
		return err
	}

	for i := range claims {
		claims[i].Embedding = vectors[i]
	}
	return nil
}

// embedEvidence attaches vectors to evidence in one batched encode call
func (p *IngestionPipeline) embedEvidence(ctx context.Context, evidence []model.Evidence) error {
	if len(evidence) == 0 {
		return nil
	}

	texts := make([]string, len(evidence))
	for i, e := range evidence {
		texts[i] = e.Text
	}

	vectors, err := p.embedder.Encode(ctx, texts)
	if err != nil {
		return err
	}

	for i := range evidence {
		evidence[i].Embedding = vectors[i]
	}
	return nil
}
