package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/BrainDriveAI/memory/pkg/common"
)

// searchGraphByNodes embeds the given node names in one batch and collects
// the neighborhood of every match at the write threshold. Results are
// merged by relation ID and ordered by similarity descending.
func (e *Engine) searchGraphByNodes(
	ctx context.Context,
	userID string,
	nodeNames []string,
) ([]common.Relation, error) {
	if len(nodeNames) == 0 {
		return nil, nil
	}

	inputs := make([][]byte, len(nodeNames))
	for i := range nodeNames {
		inputs[i] = []byte(nodeNames[i])
	}
	embeddings, err := e.aiClient.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed node names: %w", err)
	}

	merged := make([]common.Relation, 0)
	seen := make(map[int64]struct{})
	for _, embedding := range embeddings {
		relations, err := e.graph.NeighborhoodByEmbedding(ctx, userID, embedding, writeThreshold, nodeSearchLimit*2)
		if err != nil {
			return nil, fmt.Errorf("graph neighborhood: %w", err)
		}
		for _, rel := range relations {
			if _, ok := seen[rel.RelationID]; ok {
				continue
			}
			seen[rel.RelationID] = struct{}{}
			merged = append(merged, rel)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})
	if len(merged) > nodeSearchLimit {
		merged = merged[:nodeSearchLimit]
	}
	return merged, nil
}

// searchGraphByQuery embeds the raw query text and returns the matched
// neighborhood at the looser query threshold.
func (e *Engine) searchGraphByQuery(
	ctx context.Context,
	userID, query string,
) ([]common.Relation, error) {
	embedding, err := e.aiClient.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	relations, err := e.graph.NeighborhoodByEmbedding(ctx, userID, embedding, queryThreshold, querySearchLimit)
	if err != nil {
		return nil, fmt.Errorf("graph neighborhood: %w", err)
	}
	return relations, nil
}
