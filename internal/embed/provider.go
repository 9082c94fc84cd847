package embed

import (
	"context"
	"fmt"

	"github.com/claimscope/claimscope/internal/model"
)

// Provider defines the interface for embedding providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Encode maps each text to a fixed-length vector. Deterministic
	// for identical input; accepts 1..N texts in one call.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed output dimension D
	Dimension() int
}

// NewProvider creates a provider from configuration
func NewProvider(cfg model.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIProvider(cfg)
	case "mock":
		return NewMockProvider(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}
