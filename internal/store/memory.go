package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore with brute-force cosine
// search. It backs tests and offline runs; it is not a persistence
// layer.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dimension int
	records   map[uint64]Record
}

// NewMemoryStore creates an empty in-memory vector store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
	}
}

// EnsureCollection creates the collection if missing
func (s *MemoryStore) EnsureCollection(_ context.Context, collection string, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.collections[collection]; ok {
		if existing.dimension != dimension {
			return fmt.Errorf("collection %s already exists with dimension %d", collection, existing.dimension)
		}
		return nil
	}

	s.collections[collection] = &memoryCollection{
		dimension: dimension,
		records:   make(map[uint64]Record),
	}
	return nil
}

// Upsert writes records, replacing any with the same ID
func (s *MemoryStore) Upsert(_ context.Context, collection string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection: %s", collection)
	}

	for _, rec := range records {
		if len(rec.Vector) != col.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", col.dimension, len(rec.Vector))
		}
		col.records[rec.ID] = rec
	}
	return nil
}

// Search scans the whole collection and returns the topK records by
// descending cosine similarity
func (s *MemoryStore) Search(_ context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	if topK < 1 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}

	results := make([]SearchResult, 0, len(col.records))
	for _, rec := range col.records {
		results = append(results, SearchResult{
			Payload: rec.Payload,
			Score:   cosineSimilarity(vector, rec.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of records in a collection (0 if missing)
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if col, ok := s.collections[collection]; ok {
		return len(col.records)
	}
	return 0
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
