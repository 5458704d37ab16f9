package memory

import (
	"context"
	"fmt"

	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"
)

// resolveEntity finds the existing node best matching the name at the write
// threshold, or creates a new one. The entity type falls back to "unknown"
// when extraction produced none.
func (e *Engine) resolveEntity(
	ctx context.Context,
	userID, name string,
	entityTypes map[string]string,
) (int64, error) {
	embedding, err := e.aiClient.GenerateEmbedding(ctx, []byte(name))
	if err != nil {
		return 0, fmt.Errorf("embed entity %q: %w", name, err)
	}

	existing, err := e.graph.FindNearestEntity(ctx, userID, embedding, writeThreshold)
	if err != nil {
		return 0, fmt.Errorf("resolve entity %q: %w", name, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	entityType := entityTypes[name]
	if entityType == "" {
		entityType = "unknown"
	}
	id, err := e.graph.CreateEntity(ctx, userID, name, entityType, embedding)
	if err != nil {
		return 0, fmt.Errorf("create entity %q: %w", name, err)
	}
	return id, nil
}

// writeTriples resolves each triple's endpoints against the existing graph
// and merges the edge. A failing triple is logged and skipped so one bad
// extraction cannot sink the rest of the batch.
func (e *Engine) writeTriples(
	ctx context.Context,
	userID string,
	triples []common.Triple,
	entityTypes map[string]string,
) []common.Triple {
	written := make([]common.Triple, 0, len(triples))
	for _, triple := range triples {
		if err := e.writeTriple(ctx, userID, triple, entityTypes); err != nil {
			logger.Error("[Memory][Write] Skipping triple",
				"source", triple.Source,
				"relationship", triple.Relationship,
				"destination", triple.Destination,
				"err", err,
			)
			continue
		}
		written = append(written, triple)
	}
	return written
}

func (e *Engine) writeTriple(
	ctx context.Context,
	userID string,
	triple common.Triple,
	entityTypes map[string]string,
) error {
	sourceID, err := e.resolveEntity(ctx, userID, triple.Source, entityTypes)
	if err != nil {
		return err
	}
	destinationID, err := e.resolveEntity(ctx, userID, triple.Destination, entityTypes)
	if err != nil {
		return err
	}

	if _, err := e.graph.MergeRelation(ctx, sourceID, destinationID, triple.Relationship); err != nil {
		return fmt.Errorf("merge relation %q: %w", triple.Relationship, err)
	}
	return nil
}
