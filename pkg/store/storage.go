package store

import (
	"context"

	"github.com/BrainDriveAI/memory/pkg/common"
)

// GraphStore defines the interface for persisting and querying the per-user
// knowledge graph. Entities are resolved by embedding similarity and
// relations are merged on create, so repeated writes of the same fact only
// bump timestamps.
type GraphStore interface {
	// FindNearestEntity returns the best entity match at or above the
	// similarity threshold, or nil when nothing qualifies. Ties are broken
	// by lowest ID.
	FindNearestEntity(ctx context.Context, userID string, embedding []float32, threshold float64) (*common.Entity, error)

	// CreateEntity inserts the entity or, when a node with the same name
	// already exists for the user, touches its updated_at. Returns the
	// entity ID either way.
	CreateEntity(ctx context.Context, userID, name, entityType string, embedding []float32) (int64, error)

	// MergeRelation inserts the edge or touches updated_at when the same
	// (source, destination, type) edge already exists.
	MergeRelation(ctx context.Context, sourceID, destinationID int64, relationType string) (int64, error)

	// NeighborhoodByEmbedding returns incoming and outgoing edges of all
	// entities matching the embedding at or above the threshold, ordered by
	// similarity descending.
	NeighborhoodByEmbedding(ctx context.Context, userID string, embedding []float32, threshold float64, limit int) ([]common.Relation, error)

	// RenameEntity sets a new name and embedding on the node so that
	// similarity search keeps matching the stored name.
	RenameEntity(ctx context.Context, userID string, id int64, name string, embedding []float32) error

	// RetypeRelation replaces the relationship type on an edge.
	RetypeRelation(ctx context.Context, userID string, id int64, relationType string) error

	// DeleteEntity removes the node together with every edge touching it.
	DeleteEntity(ctx context.Context, userID string, id int64) error

	// DeleteRelation removes a single edge.
	DeleteRelation(ctx context.Context, userID string, id int64) error

	// DeleteTriple removes edges matching the exact source name,
	// relationship type and destination name.
	DeleteTriple(ctx context.Context, userID, source, relationship, destination string) error

	// AllRelations lists the user's triples, most recently updated first.
	AllRelations(ctx context.Context, userID string, limit int) ([]common.Triple, error)
}

// VectorStore defines the interface for the document side of the memory:
// raw memory texts chunked, embedded and searchable by hybrid
// similarity + full-text ranking.
type VectorStore interface {
	// AddMemory chunks the content, embeds each chunk and stores one
	// document per chunk. Returns the generated document IDs.
	AddMemory(ctx context.Context, userID, content string, metadata map[string]string) ([]string, error)

	// DeleteDocuments removes the given documents of the user.
	DeleteDocuments(ctx context.Context, userID string, ids []string) error

	// HybridSearch returns up to matchCount documents ranked by a fusion of
	// cosine similarity and full-text relevance.
	HybridSearch(ctx context.Context, userID, query string, matchCount int) ([]common.Document, error)
}

// SemanticSearch defines the interface to a remote semantic-search backend
// holding documents outside the local store.
type SemanticSearch interface {
	Retrieve(ctx context.Context, query string) ([]common.Document, error)
}
