package embed

import (
	"context"
	"math"
)

// MockProvider produces deterministic vectors derived from the text
// bytes. Useful for tests and offline runs; similar prefixes produce
// similar vectors, which is enough for exercising search plumbing.
type MockProvider struct {
	dimension int
}

// NewMockProvider creates a mock provider with the given dimension
func NewMockProvider(dimension int) *MockProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &MockProvider{dimension: dimension}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Dimension returns the fixed output dimension
func (p *MockProvider) Dimension() int {
	return p.dimension
}

// Encode derives a unit vector from each text
func (p *MockProvider) Encode(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, p.dimension)
		for j, r := range text {
			vec[j%p.dimension] += float32(r) / 1000.0
		}
		vectors[i] = normalize(vec)
	}
	return vectors, nil
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
