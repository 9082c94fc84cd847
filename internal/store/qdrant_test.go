package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claimscope/claimscope/internal/model"
)

func qdrantTestStore(url string) *QdrantStore {
	return NewQdrantStore(model.StoreConfig{URL: url, APIKey: "secret"})
}

func TestQdrantStore_EnsureCollection(t *testing.T) {
	var createBody map[string]any
	created := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/claims" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			// Collection does not exist yet
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":{"error":"Collection not found"}}`))
		case http.MethodPut:
			created = true
			if err := json.NewDecoder(r.Body).Decode(&createBody); err != nil {
				t.Errorf("Failed to decode create body: %v", err)
			}
			_, _ = w.Write([]byte(`{"result":true,"status":"ok"}`))
		}
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	if err := s.EnsureCollection(context.Background(), "claims", 384); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if !created {
		t.Fatal("Expected a create request")
	}

	vectors, ok := createBody["vectors"].(map[string]any)
	if !ok {
		t.Fatalf("Create body missing vectors config: %v", createBody)
	}
	if vectors["size"] != float64(384) {
		t.Errorf("Vector size = %v, want 384", vectors["size"])
	}
	if vectors["distance"] != "Cosine" {
		t.Errorf("Distance = %v, want Cosine", vectors["distance"])
	}
}

func TestQdrantStore_EnsureCollection_AlreadyExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected only a GET for an existing collection, got %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"result":{"status":"green"},"status":"ok"}`))
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	if err := s.EnsureCollection(context.Background(), "claims", 384); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
}

func TestQdrantStore_Upsert(t *testing.T) {
	var body struct {
		Points []qdrantPoint `json:"points"`
	}
	var gotPath, gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAPIKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode upsert body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":{"operation_id":1,"status":"completed"},"status":"ok"}`))
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	records := []Record{
		{
			ID:     42,
			Vector: []float32{0.1, 0.2},
			Payload: Payload{
				ClaimID: "c1",
				Text:    "some claim",
				PaperID: "p1",
			},
		},
	}
	if err := s.Upsert(context.Background(), "claims", records); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if gotPath != "/collections/claims/points?wait=true" {
		t.Errorf("Upsert path = %q, want wait=true points endpoint", gotPath)
	}
	if gotAPIKey != "secret" {
		t.Errorf("api-key header = %q, want secret", gotAPIKey)
	}
	if len(body.Points) != 1 || body.Points[0].Id != 42 {
		t.Errorf("Unexpected points body: %+v", body.Points)
	}
	if body.Points[0].Payload.ClaimID != "c1" {
		t.Errorf("Payload not carried: %+v", body.Points[0].Payload)
	}
}

func TestQdrantStore_UpsertEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("No request expected for an empty upsert")
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	if err := s.Upsert(context.Background(), "claims", nil); err != nil {
		t.Fatalf("Empty upsert failed: %v", err)
	}
}

func TestQdrantStore_UpsertNotOkStatus(t *testing.T) {
	// A non-ok status is a failure even when the error detail is empty
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":null,"status":"accepted"}`))
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	records := []Record{{ID: 1, Vector: []float32{1, 0}}}
	if err := s.Upsert(context.Background(), "claims", records); err == nil {
		t.Fatal("Expected error for a non-ok upsert status")
	}
}

func TestQdrantStore_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/evidence/points/search" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode search body: %v", err)
		}
		if req["limit"] != float64(5) {
			t.Errorf("limit = %v, want 5", req["limit"])
		}
		if req["with_payload"] != true {
			t.Errorf("with_payload = %v, want true", req["with_payload"])
		}

		_, _ = w.Write([]byte(`{
			"result": [
				{"id": 1, "score": 0.92, "payload": {"evidence_id": "e1", "text": "first", "paper_id": "p1", "paper_title": "T", "year": 2021, "venue": "arXiv", "section": "results"}},
				{"id": 2, "score": 0.61, "payload": {"evidence_id": "e2", "text": "second", "paper_id": "p2", "paper_title": "T2", "year": 2020, "venue": "arXiv", "section": "discussion"}}
			],
			"status": "ok"
		}`))
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	results, err := s.Search(context.Background(), "evidence", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Payload.EvidenceID != "e1" || results[0].Score != 0.92 {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if results[1].Payload.Section != model.SectionDiscussion {
		t.Errorf("Section = %q, want discussion", results[1].Payload.Section)
	}
}

func TestQdrantStore_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":{"error":"wrong vector size"}}`))
	}))
	defer server.Close()

	s := qdrantTestStore(server.URL)
	_, err := s.Search(context.Background(), "claims", []float32{1}, 5)
	if err == nil {
		t.Fatal("Expected error from HTTP 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}

func TestQdrantStatus_Unmarshal(t *testing.T) {
	var env qdrantEnvelope[json.RawMessage]
	if err := json.Unmarshal([]byte(`{"status":"ok"}`), &env); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if env.Status.State != "ok" {
		t.Errorf("State = %q, want ok", env.Status.State)
	}

	env = qdrantEnvelope[json.RawMessage]{}
	if err := json.Unmarshal([]byte(`{"status":{"error":"boom"}}`), &env); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if env.Status.Error != "boom" {
		t.Errorf("Error = %q, want boom", env.Status.Error)
	}
}
