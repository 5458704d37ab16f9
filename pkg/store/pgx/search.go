package pgx

import (
	"context"
	"fmt"

	"github.com/BrainDriveAI/memory/pkg/common"

	"github.com/pgvector/pgvector-go"
)

// NeighborhoodByEmbedding finds all entities of the user matching the
// embedding at or above the similarity threshold and returns their incoming
// and outgoing edges, ordered by match similarity descending.
func (s *MemoryDBStore) NeighborhoodByEmbedding(
	ctx context.Context,
	userID string,
	embedding []float32,
	threshold float64,
	limit int,
) ([]common.Relation, error) {
	if limit <= 0 {
		limit = 10
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.conn.Query(ctx, `
		SELECT * FROM (
			SELECT
				src.name AS source, src.id AS source_id,
				r.type AS relationship, r.id AS relation_id,
				dst.name AS destination, dst.id AS destination_id,
				r.created_at, r.updated_at,
				1 - (src.embedding <=> $2) AS similarity
			FROM entities src
			JOIN relationships r ON r.source_id = src.id
			JOIN entities dst ON dst.id = r.destination_id
			WHERE src.user_id = $1 AND dst.user_id = $1
			  AND 1 - (src.embedding <=> $2) >= $3
			UNION ALL
			SELECT
				src.name, src.id,
				r.type, r.id,
				dst.name, dst.id,
				r.created_at, r.updated_at,
				1 - (dst.embedding <=> $2) AS similarity
			FROM entities dst
			JOIN relationships r ON r.destination_id = dst.id
			JOIN entities src ON src.id = r.source_id
			WHERE dst.user_id = $1 AND src.user_id = $1
			  AND 1 - (dst.embedding <=> $2) >= $3
		) matches
		ORDER BY similarity DESC, relation_id ASC
		LIMIT $4`,
		userID, vec, threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("neighborhood by embedding: %w", err)
	}
	defer rows.Close()

	relations := make([]common.Relation, 0)
	for rows.Next() {
		var rel common.Relation
		if err := rows.Scan(
			&rel.Source, &rel.SourceID,
			&rel.Relationship, &rel.RelationID,
			&rel.Destination, &rel.DestinationID,
			&rel.CreatedAt, &rel.UpdatedAt,
			&rel.Similarity,
		); err != nil {
			return nil, fmt.Errorf("neighborhood by embedding: %w", err)
		}
		relations = append(relations, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("neighborhood by embedding: %w", err)
	}
	return relations, nil
}
