package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimscope/claimscope/internal/embed"
	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/stance"
	"github.com/claimscope/claimscope/internal/store"
)

// Retriever maps a query to related claims and stance-bucketed
// evidence. All collaborators are injected; embedding and search
// failures propagate unmodified to the caller.
type Retriever struct {
	embedder    embed.Provider
	vectors     store.VectorStore
	categorizer *stance.Categorizer
	cfg         model.RetrievalConfig
	claimsCol   string
	evidenceCol string
}

// NewRetriever creates a retriever over the given collaborators
func NewRetriever(embedder embed.Provider, vectors store.VectorStore, storeCfg model.StoreConfig, cfg model.RetrievalConfig) *Retriever {
	return &Retriever{
		embedder:    embedder,
		vectors:     vectors,
		categorizer: stance.NewCategorizer(),
		cfg:         cfg,
		claimsCol:   storeCfg.ClaimsCollection,
		evidenceCol: storeCfg.EvidenceCollection,
	}
}

// Retrieve embeds the query, searches both collections, filters by the
// similarity threshold, and buckets surviving evidence by stance.
// Bucket and claim ordering preserve the descending-similarity order
// returned by the search.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*model.RetrievalResult, error) {
	// A blank query is a normal empty result, not an error. Embedding
	// APIs reject empty input, so it never reaches the provider.
	if strings.TrimSpace(query) == "" {
		return emptyResult(query), nil
	}

	vectors, err := r.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVector := vectors[0]

	claimHits, err := r.vectors.Search(ctx, r.claimsCol, queryVector, r.cfg.TopKClaims)
	if err != nil {
		return nil, fmt.Errorf("search claims: %w", err)
	}

	evidenceHits, err := r.vectors.Search(ctx, r.evidenceCol, queryVector, r.cfg.TopKEvidence)
	if err != nil {
		return nil, fmt.Errorf("search evidence: %w", err)
	}

	result := emptyResult(query)

	for _, hit := range claimHits {
		if hit.Score < r.cfg.SimilarityThreshold {
			continue
		}
		result.RelatedClaims = append(result.RelatedClaims, scoredClaim(hit))
	}

	for _, hit := range evidenceHits {
		if hit.Score < r.cfg.SimilarityThreshold {
			continue
		}

		item := scoredEvidence(hit)
		item.Stance = r.categorizer.Categorize(query, hit.Payload.Text)

		switch item.Stance {
		case model.StanceSupporting:
			result.Evidence.Supporting = append(result.Evidence.Supporting, item)
		case model.StanceContradicting:
			result.Evidence.Contradicting = append(result.Evidence.Contradicting, item)
		default:
			result.Evidence.Neutral = append(result.Evidence.Neutral, item)
		}
	}

	return result, nil
}

func emptyResult(query string) *model.RetrievalResult {
	return &model.RetrievalResult{
		Query:         query,
		RelatedClaims: []model.ScoredClaim{},
		Evidence: model.EvidenceBuckets{
			Supporting:    []model.ScoredEvidence{},
			Contradicting: []model.ScoredEvidence{},
			Neutral:       []model.ScoredEvidence{},
		},
	}
}

func scoredClaim(hit store.SearchResult) model.ScoredClaim {
	return model.ScoredClaim{
		ClaimID:    hit.Payload.ClaimID,
		Text:       hit.Payload.Text,
		PaperID:    hit.Payload.PaperID,
		PaperTitle: hit.Payload.PaperTitle,
		Year:       hit.Payload.Year,
		Venue:      hit.Payload.Venue,
		Section:    hit.Payload.Section,
		Similarity: hit.Score,
	}
}

func scoredEvidence(hit store.SearchResult) model.ScoredEvidence {
	return model.ScoredEvidence{
		EvidenceID: hit.Payload.EvidenceID,
		Text:       hit.Payload.Text,
		PaperID:    hit.Payload.PaperID,
		PaperTitle: hit.Payload.PaperTitle,
		Year:       hit.Payload.Year,
		Venue:      hit.Payload.Venue,
		Section:    hit.Payload.Section,
		Similarity: hit.Score,
	}
}
