package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/claimscope/claimscope/internal/cache"
	"github.com/claimscope/claimscope/internal/embed"
	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/store"
)

// loadConfig builds the effective configuration: defaults, then config
// file / CLAIMSCOPE_* env vars via viper, then API keys from their
// conventional env vars.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}

	setString("embedding.provider", &cfg.Embedding.Provider)
	setString("embedding.model", &cfg.Embedding.Model)
	setString("embedding.base_url", &cfg.Embedding.BaseURL)
	setInt("embedding.dimension", &cfg.Embedding.Dimension)
	setString("store.url", &cfg.Store.URL)
	setString("store.claims_collection", &cfg.Store.ClaimsCollection)
	setString("store.evidence_collection", &cfg.Store.EvidenceCollection)
	setInt("retrieval.top_k_claims", &cfg.Retrieval.TopKClaims)
	setInt("retrieval.top_k_evidence", &cfg.Retrieval.TopKEvidence)
	if viper.IsSet("retrieval.similarity_threshold") {
		cfg.Retrieval.SimilarityThreshold = float32(viper.GetFloat64("retrieval.similarity_threshold"))
	}
	setString("arxiv.base_url", &cfg.Arxiv.BaseURL)
	setInt("arxiv.max_papers", &cfg.Arxiv.MaxPapers)
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	setString("cache.dir", &cfg.Cache.Dir)
	setInt("concurrency.batch_workers", &cfg.Concurrency.BatchWorkers)

	cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Store.APIKey = os.Getenv("QDRANT_API_KEY")
	cfg.Output.Verbose = verbose

	if cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".claimscope", "cache")
		}
	}

	return cfg
}

// newEmbedder constructs the embedding provider, with the query cache
// layered on top when caching is enabled
func newEmbedder(cfg *model.Config) (embed.Provider, error) {
	provider, err := embed.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}

	if cfg.Cache.Enabled {
		return embed.NewCachedProvider(provider, cfg.Cache.TTL), nil
	}
	return provider, nil
}

// newVectorStore constructs the vector store. The special URL "memory"
// selects the in-process store, useful for trying the tool without a
// running Qdrant.
func newVectorStore(cfg *model.Config) store.VectorStore {
	if cfg.Store.URL == "memory" {
		return store.NewMemoryStore()
	}
	return store.NewQdrantStore(cfg.Store)
}

// newFetchCache builds the layered response cache for paper sources
func newFetchCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
}
