package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claimscope/claimscope/internal/model"
)

// QdrantStore implements VectorStore against the Qdrant HTTP API
type QdrantStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewQdrantStore creates a Qdrant-backed vector store
func NewQdrantStore(cfg model.StoreConfig) *QdrantStore {
	return &QdrantStore{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type qdrantEnvelope[T any] struct {
	Result T            `json:"result"`
	Status qdrantStatus `json:"status"`
}

// qdrantStatus is "ok" on success or {"error": "..."} on failure
type qdrantStatus struct {
	State string
	Error string
}

func (s *qdrantStatus) UnmarshalJSON(data []byte) error {
	var state string
	if err := json.Unmarshal(data, &state); err == nil {
		s.State = state
		return nil
	}

	var detail struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &detail); err != nil {
		return err
	}
	s.Error = detail.Error
	return nil
}

type qdrantPoint struct {
	Id      uint64    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

type qdrantHit struct {
	Id      uint64  `json:"id"`
	Score   float32 `json:"score"`
	Payload Payload `json:"payload"`
}

// EnsureCollection creates the collection if it does not exist yet
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, dimension int) error {
	exists, err := s.collectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	req := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(collection))

	var rsp qdrantEnvelope[json.RawMessage]
	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}
	if !strings.EqualFold(rsp.Status.State, "ok") {
		return fmt.Errorf("create collection %s: %s", collection, rsp.Status.Error)
	}
	return nil
}

func (s *QdrantStore) collectionExists(ctx context.Context, collection string) (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(collection))

	var rsp qdrantEnvelope[json.RawMessage]
	err := s.do(ctx, http.MethodGet, path, nil, &rsp)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(rsp.Status.State, "ok"), nil
}

// Upsert writes records with wait=true so a following search sees them
func (s *QdrantStore) Upsert(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]qdrantPoint, len(records))
	for i, rec := range records {
		points[i] = qdrantPoint{
			Id:      rec.ID,
			Vector:  rec.Vector,
			Payload: rec.Payload,
		}
	}

	req := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(collection))

	var rsp qdrantEnvelope[json.RawMessage]
	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return fmt.Errorf("upsert %d points into %s: %w", len(points), collection, err)
	}
	if !strings.EqualFold(rsp.Status.State, "ok") {
		return fmt.Errorf("upsert into %s: %s", collection, rsp.Status.Error)
	}
	return nil
}

// Search returns the topK nearest points by cosine similarity
func (s *QdrantStore) Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	if topK < 1 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(collection))

	var rsp qdrantEnvelope[[]qdrantHit]
	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	results := make([]SearchResult, 0, len(rsp.Result))
	for _, hit := range rsp.Result {
		results = append(results, SearchResult{
			Payload: hit.Payload,
			Score:   hit.Score,
		})
	}
	return results, nil
}

func (s *QdrantStore) do(ctx context.Context, method, path string, req any, rsp any) error {
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		request.Header.Set("api-key", s.apiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}
	return nil
}
