package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/retrieve" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var req retrieveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "weekend plans" {
			t.Errorf("unexpected query %q", req.Query)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"documents": []map[string]any{
				{"id": "d1", "content": "Alex enjoys hiking on weekends", "score": 0.87},
				{"id": "d2", "content": "Alex dislikes crowded places", "metadata": map[string]string{"source": "notes"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL, ApiKey: "test-key"})
	docs, err := client.Retrieve(context.Background(), "weekend plans")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "d1" || docs[0].Content != "Alex enjoys hiking on weekends" {
		t.Fatalf("unexpected first document: %+v", docs[0])
	}
	if docs[0].Score != 0.87 {
		t.Fatalf("expected score 0.87, got %v", docs[0].Score)
	}
	if docs[1].Score != 0 {
		t.Fatalf("expected zero score when backend reports none, got %v", docs[1].Score)
	}
	if docs[1].Metadata["source"] != "notes" {
		t.Fatalf("expected metadata to carry through, got %+v", docs[1].Metadata)
	}
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	client := NewClient(NewClientParams{BaseURL: "http://unused"})
	docs, err := client.Retrieve(context.Background(), "   ")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if docs != nil {
		t.Fatalf("expected no documents, got %v", docs)
	}
}

func TestRetrieve_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL})
	_, err := client.Retrieve(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error for non-200 status, got nil")
	}
}

func TestRetrieve_CapsDocumentCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		docs := make([]map[string]any, 0, 15)
		for i := 0; i < 15; i++ {
			docs = append(docs, map[string]any{"id": "d", "content": "x"})
		}
		json.NewEncoder(w).Encode(map[string]any{"documents": docs})
	}))
	defer srv.Close()

	client := NewClient(NewClientParams{BaseURL: srv.URL})
	docs, err := client.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(docs) != maxDocuments {
		t.Fatalf("expected %d documents, got %d", maxDocuments, len(docs))
	}
}
