package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/store"
)

const maxDocuments = 10

// Client queries a remote semantic-search service over HTTP. The service
// indexes documents outside the local store and returns ranked snippets
// for a query.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ store.SemanticSearch = (*Client)(nil)

// NewClientParams contains configuration for creating a search Client.
type NewClientParams struct {
	BaseURL string
	ApiKey  string
	Timeout time.Duration
}

// NewClient creates a semantic-search client for the given endpoint.
func NewClient(params NewClientParams) *Client {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(params.BaseURL, "/"),
		apiKey:  params.ApiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type retrieveRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type retrieveResponse struct {
	Documents []struct {
		ID       string            `json:"id"`
		Content  string            `json:"content"`
		Score    float64           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"documents"`
}

// Retrieve returns up to 10 documents matching the query.
func (c *Client) Retrieve(ctx context.Context, query string) ([]common.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	body, err := json.Marshal(retrieveRequest{
		Query:      query,
		MaxResults: maxDocuments,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/retrieve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("search request failed: status %d: %s", res.StatusCode, string(payload))
	}

	var parsed retrieveResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]common.Document, 0, len(parsed.Documents))
	for _, d := range parsed.Documents {
		if len(docs) >= maxDocuments {
			break
		}
		docs = append(docs, common.Document{
			ID:       d.ID,
			Content:  d.Content,
			Score:    d.Score,
			Metadata: d.Metadata,
		})
	}
	return docs, nil
}
