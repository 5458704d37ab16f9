package memory

import (
	"context"
	"fmt"

	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"
	"github.com/BrainDriveAI/memory/pkg/store"
)

const (
	// writeThreshold is the similarity bound for resolving a mention to an
	// existing node on the write path.
	writeThreshold = 0.9
	// queryThreshold is the looser bound used when matching a free-form
	// query against the graph.
	queryThreshold = 0.8

	nodeSearchLimit  = 10
	querySearchLimit = 5
	getAllLimit      = 100
)

// Engine ties the AI client, graph store, vector store and remote semantic
// search together into the five memory verbs: Add, Search, Update, Delete
// and GetAll.
type Engine struct {
	aiClient ai.MemoryAIClient
	graph    store.GraphStore
	vector   store.VectorStore
	semantic store.SemanticSearch
}

// NewEngineParams contains the collaborators for a new Engine.
type NewEngineParams struct {
	AIClient ai.MemoryAIClient
	Graph    store.GraphStore
	Vector   store.VectorStore
	Semantic store.SemanticSearch
}

// NewEngine creates an Engine. Vector and semantic backends may be the
// Null implementations when not configured; the AI client and graph store
// are required.
func NewEngine(params NewEngineParams) (*Engine, error) {
	if params.AIClient == nil {
		return nil, fmt.Errorf("ai client is required")
	}
	if params.Graph == nil {
		return nil, fmt.Errorf("graph store is required")
	}
	vector := params.Vector
	if vector == nil {
		vector = store.NullVectorStore{}
	}
	semantic := params.Semantic
	if semantic == nil {
		semantic = store.NullSemanticSearch{}
	}
	return &Engine{
		aiClient: params.AIClient,
		graph:    params.Graph,
		vector:   vector,
		semantic: semantic,
	}, nil
}

// AddResult reports what an Add stored: the vector document IDs of the
// chunked memory and the graph triples that were written.
type AddResult struct {
	DocumentIDs []string        `json:"document_ids"`
	Relations   []common.Triple `json:"relations"`
}

// Add stores a memory: the raw text goes to the vector store and the
// extracted entity relations go to the graph. Extraction failures degrade
// to a document-only add; a vector store failure aborts.
func (e *Engine) Add(ctx context.Context, userID, content string, metadata map[string]string) (*AddResult, error) {
	docIDs, err := e.vector.AddMemory(ctx, userID, content, metadata)
	if err != nil {
		return nil, fmt.Errorf("add memory document: %w", err)
	}

	entities := e.extractEntities(ctx, userID, content)
	triples := e.extractRelations(ctx, userID, content, entities)
	written := e.writeTriples(ctx, userID, triples, entities)

	logger.Info("[Memory][Add] Memory stored",
		"user", userID,
		"documents", len(docIDs),
		"relations", len(written),
	)
	return &AddResult{
		DocumentIDs: docIDs,
		Relations:   written,
	}, nil
}

// Search expands the question into strategic sub-queries, fans them out
// across all backends and returns the synthesized report.
func (e *Engine) Search(ctx context.Context, userID, username, query, chatHistory string) (string, error) {
	queries, err := e.generateQueries(ctx, username, query, chatHistory)
	if err != nil {
		return "", err
	}
	logger.Info("[Memory][Search] Generated strategic queries", "user", userID, "count", len(queries))

	results := e.searchAll(ctx, userID, queries)
	return synthesizeResults(results, query), nil
}

// Update replaces an earlier memory: the old vector documents are removed,
// the new text is stored, and the graph is mutated per a typed update
// decision derived from the matching neighborhood. A failed decision
// aborts without touching the graph.
func (e *Engine) Update(ctx context.Context, userID, request string, oldDocumentIDs []string, metadata map[string]string) (*AddResult, error) {
	if err := e.vector.DeleteDocuments(ctx, userID, oldDocumentIDs); err != nil {
		return nil, fmt.Errorf("delete outdated documents: %w", err)
	}
	docIDs, err := e.vector.AddMemory(ctx, userID, request, metadata)
	if err != nil {
		return nil, fmt.Errorf("add updated document: %w", err)
	}

	entities := e.extractEntities(ctx, userID, request)
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	memories, err := e.searchGraphByNodes(ctx, userID, names)
	if err != nil {
		return nil, err
	}

	if len(memories) > 0 {
		decision, err := e.decideUpdate(ctx, userID, request, memories)
		if err != nil {
			return nil, err
		}
		if err := e.applyUpdate(ctx, userID, decision); err != nil {
			return nil, err
		}
		logger.Info("[Memory][Update] Applied update decision",
			"user", userID,
			"type", decision.UpdateType,
			"entity", decision.EntityID,
		)
	}

	return &AddResult{DocumentIDs: docIDs}, nil
}

// Delete removes a memory: the named vector documents are deleted first,
// then the graph is mutated per a typed delete decision derived from the
// neighborhood matching the request. A failed document delete or decision
// aborts.
func (e *Engine) Delete(ctx context.Context, userID, request string, documentIDs []string) error {
	if err := e.vector.DeleteDocuments(ctx, userID, documentIDs); err != nil {
		return fmt.Errorf("delete memory documents: %w", err)
	}

	entities := e.extractEntities(ctx, userID, request)
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	memories, err := e.searchGraphByNodes(ctx, userID, names)
	if err != nil {
		return err
	}
	if len(memories) == 0 {
		logger.Info("[Memory][Delete] Nothing matched the request", "user", userID)
		return nil
	}

	decision, err := e.decideDelete(ctx, userID, request, memories)
	if err != nil {
		return err
	}
	if err := e.applyDelete(ctx, userID, decision); err != nil {
		return err
	}
	logger.Info("[Memory][Delete] Applied delete decision",
		"user", userID,
		"type", decision.DeleteType,
		"entity", decision.EntityID,
	)
	return nil
}

// GetAll lists the user's stored triples, most recently updated first.
func (e *Engine) GetAll(ctx context.Context, userID string) ([]common.Triple, error) {
	return e.graph.AllRelations(ctx, userID, getAllLimit)
}
