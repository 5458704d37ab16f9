package store

import (
	"context"

	"github.com/BrainDriveAI/memory/pkg/common"
)

// NullVectorStore is a VectorStore that stores nothing and finds nothing.
// Used when no vector backend is configured.
type NullVectorStore struct{}

var _ VectorStore = NullVectorStore{}

func (NullVectorStore) AddMemory(ctx context.Context, userID, content string, metadata map[string]string) ([]string, error) {
	return nil, nil
}

func (NullVectorStore) DeleteDocuments(ctx context.Context, userID string, ids []string) error {
	return nil
}

func (NullVectorStore) HybridSearch(ctx context.Context, userID, query string, matchCount int) ([]common.Document, error) {
	return nil, nil
}

// NullSemanticSearch is a SemanticSearch that always comes back empty.
// Used when no remote search backend is configured.
type NullSemanticSearch struct{}

var _ SemanticSearch = NullSemanticSearch{}

func (NullSemanticSearch) Retrieve(ctx context.Context, query string) ([]common.Document, error) {
	return nil, nil
}
