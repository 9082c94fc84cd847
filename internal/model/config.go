package model

import "time"

// Config is the full runtime configuration. Populated from defaults,
// then ~/.claimscope/config.yaml, then CLAIMSCOPE_* env vars, then flags.
type Config struct {
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Store       StoreConfig       `yaml:"store"`
	Extract     ExtractConfig     `yaml:"extract"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Arxiv       ArxivConfig       `yaml:"arxiv"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`  // "openai" or "mock"
	Model     string `yaml:"model"`     // provider-specific model name
	BaseURL   string `yaml:"base_url"`  // override for OpenAI-compatible endpoints (e.g. Ollama)
	APIKey    string `yaml:"-"`         // from OPENAI_API_KEY, never written to disk
	Dimension int    `yaml:"dimension"` // fixed output dimension D
	Timeout   int    `yaml:"timeout"`   // seconds per encode call
}

// StoreConfig configures the vector store
type StoreConfig struct {
	URL                string `yaml:"url"` // Qdrant base URL
	APIKey             string `yaml:"-"`
	ClaimsCollection   string `yaml:"claims_collection"`
	EvidenceCollection string `yaml:"evidence_collection"`
}

// ExtractConfig bounds the sentence classifiers
type ExtractConfig struct {
	MinClaimLength    int `yaml:"min_claim_length"`
	MaxClaimLength    int `yaml:"max_claim_length"`
	MinEvidenceLength int `yaml:"min_evidence_length"`
}

// RetrievalConfig configures search fan-out and filtering
type RetrievalConfig struct {
	TopKClaims          int     `yaml:"top_k_claims"`
	TopKEvidence        int     `yaml:"top_k_evidence"`
	SimilarityThreshold float32 `yaml:"similarity_threshold"`
}

// ArxivConfig configures the arXiv paper source
type ArxivConfig struct {
	BaseURL           string  `yaml:"base_url"`
	MaxPapers         int     `yaml:"max_papers"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// HTTPConfig configures outbound HTTP fetching
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
}

// CacheConfig configures the fetch/embedding caches
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig configures the batch worker layer
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			Dimension: 1536,
			Timeout:   60,
		},
		Store: StoreConfig{
			URL:                "http://localhost:6333",
			ClaimsCollection:   "claims",
			EvidenceCollection: "evidence",
		},
		Extract: ExtractConfig{
			MinClaimLength:    30,
			MaxClaimLength:    500,
			MinEvidenceLength: 30,
		},
		Retrieval: RetrievalConfig{
			TopKClaims:          10,
			TopKEvidence:        20,
			SimilarityThreshold: 0.5,
		},
		Arxiv: ArxivConfig{
			BaseURL:           "https://export.arxiv.org/api/query",
			MaxPapers:         10,
			RequestsPerSecond: 0.33, // arXiv asks for one request every three seconds
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Claimscope/0.1 (+https://github.com/claimscope/claimscope)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // resolved to ~/.claimscope/cache at startup
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
