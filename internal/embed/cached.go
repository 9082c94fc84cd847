package embed

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/claimscope/claimscope/internal/cache"
)

// CachedProvider wraps a Provider with a TTL cache keyed by text, so
// repeated queries skip the embedding round trip. Only texts missing
// from the cache are sent upstream, in one batched call.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps the given provider with a memory cache
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache.NewMemoryCache(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// Dimension returns the wrapped provider's dimension
func (p *CachedProvider) Dimension() int {
	return p.inner.Dimension()
}

// Encode returns cached vectors where available and fetches the rest
func (p *CachedProvider) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if data, found := p.cache.Get(cache.Key(p.inner.Name() + ":" + text)); found {
			vectors[i] = decodeVector(data)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := p.inner.Encode(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(fetched))
	}

	for j, vec := range fetched {
		vectors[missingIdx[j]] = vec
		_ = p.cache.Set(cache.Key(p.inner.Name()+":"+missing[j]), encodeVector(vec), p.ttl)
	}

	return vectors, nil
}

func encodeVector(vec []float32) []byte {
	data := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

func decodeVector(data []byte) []float32 {
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec
}
