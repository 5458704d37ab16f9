package memory

import (
	"context"
	"sync"

	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	searchPoolLimit  = 8
	vectorMatchCount = 10
)

type queryResults struct {
	Query           string
	VectorResults   []common.Document
	GraphResults    []common.Relation
	SemanticResults []common.Document
	KeywordResults  []keywordMatch
}

// searchSingleQuery fans one sub-query out to the vector, graph and remote
// semantic backends concurrently. A failing branch is logged and comes back
// empty; the keyword results are a BM25 rerank derived from the graph
// branch.
func (e *Engine) searchSingleQuery(ctx context.Context, userID, query string) queryResults {
	out := queryResults{Query: query}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		docs, err := e.vector.HybridSearch(ctx, userID, query, vectorMatchCount)
		if err != nil {
			logger.Error("[Memory][Search] Vector search failed", "query", query, "err", err)
			return
		}
		out.VectorResults = docs
	}()

	go func() {
		defer wg.Done()
		relations, err := e.searchGraphByQuery(ctx, userID, query)
		if err != nil {
			logger.Error("[Memory][Search] Graph search failed", "query", query, "err", err)
			return
		}
		out.GraphResults = relations
	}()

	go func() {
		defer wg.Done()
		docs, err := e.semantic.Retrieve(ctx, query)
		if err != nil {
			logger.Error("[Memory][Search] Semantic search failed", "query", query, "err", err)
			return
		}
		out.SemanticResults = docs
	}()

	wg.Wait()

	out.KeywordResults = rerankGraphEdges(query, out.GraphResults, keywordTopK)
	return out
}

// searchAll runs every strategic query through searchSingleQuery with a
// bounded worker pool and returns results in query order.
func (e *Engine) searchAll(ctx context.Context, userID string, queries []string) []queryResults {
	results := make([]queryResults, len(queries))

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(min(len(queries), searchPoolLimit))
	for i, query := range queries {
		idx := i
		q := query
		eg.Go(func() error {
			results[idx] = e.searchSingleQuery(ectx, userID, q)
			return nil
		})
	}
	// workers never return errors; branch failures are isolated inside
	_ = eg.Wait()

	return results
}
