package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrainDriveAI/memory/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// FindNearestEntity returns the user's entity closest to the embedding with
// a cosine similarity of at least threshold, or nil when none qualifies.
// Equal similarities resolve to the lowest ID so repeated lookups are stable.
func (s *MemoryDBStore) FindNearestEntity(
	ctx context.Context,
	userID string,
	embedding []float32,
	threshold float64,
) (*common.Entity, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT id, name, type, user_id, created_at, updated_at
		FROM entities
		WHERE user_id = $1 AND 1 - (embedding <=> $2) >= $3
		ORDER BY embedding <=> $2 ASC, id ASC
		LIMIT 1`,
		userID, pgvector.NewVector(embedding), threshold,
	)

	var e common.Entity
	err := row.Scan(&e.ID, &e.Name, &e.Type, &e.UserID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find nearest entity: %w", err)
	}
	return &e, nil
}

// CreateEntity inserts the entity, or touches updated_at when the user
// already has a node with that name, and returns the node ID.
func (s *MemoryDBStore) CreateEntity(
	ctx context.Context,
	userID, name, entityType string,
	embedding []float32,
) (int64, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO entities (user_id, name, type, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, name) DO UPDATE SET updated_at = now()
		RETURNING id`,
		userID, name, entityType, pgvector.NewVector(embedding),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create entity: %w", err)
	}
	return id, nil
}

// MergeRelation inserts the edge, or touches updated_at when the same
// (source, destination, type) edge exists, and returns the edge ID.
func (s *MemoryDBStore) MergeRelation(
	ctx context.Context,
	sourceID, destinationID int64,
	relationType string,
) (int64, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO relationships (source_id, destination_id, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id, destination_id, type) DO UPDATE SET updated_at = now()
		RETURNING id`,
		sourceID, destinationID, relationType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("merge relation: %w", err)
	}
	return id, nil
}

// RenameEntity sets a new name and embedding on the node. The embedding is
// refreshed together with the name so similarity search keeps matching what
// is stored.
func (s *MemoryDBStore) RenameEntity(
	ctx context.Context,
	userID string,
	id int64,
	name string,
	embedding []float32,
) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tag, err := s.conn.Exec(ctx, `
		UPDATE entities
		SET name = $3, embedding = $4, updated_at = now()
		WHERE id = $2 AND user_id = $1`,
		userID, id, name, pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("rename entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rename entity: no entity %d for user", id)
	}
	return nil
}

// RetypeRelation replaces the relationship type on an edge. The edge must
// originate from one of the user's entities.
func (s *MemoryDBStore) RetypeRelation(
	ctx context.Context,
	userID string,
	id int64,
	relationType string,
) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tag, err := s.conn.Exec(ctx, `
		UPDATE relationships r
		SET type = $3, updated_at = now()
		FROM entities s
		WHERE r.id = $2 AND r.source_id = s.id AND s.user_id = $1`,
		userID, id, relationType,
	)
	if err != nil {
		return fmt.Errorf("retype relation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("retype relation: no relation %d for user", id)
	}
	return nil
}

// DeleteEntity removes the node; its edges go with it via cascade.
func (s *MemoryDBStore) DeleteEntity(ctx context.Context, userID string, id int64) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tag, err := s.conn.Exec(ctx, `
		DELETE FROM entities WHERE id = $2 AND user_id = $1`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete entity: no entity %d for user", id)
	}
	return nil
}

// DeleteRelation removes a single edge of the user.
func (s *MemoryDBStore) DeleteRelation(ctx context.Context, userID string, id int64) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tag, err := s.conn.Exec(ctx, `
		DELETE FROM relationships r
		USING entities s
		WHERE r.id = $2 AND r.source_id = s.id AND s.user_id = $1`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete relation: no relation %d for user", id)
	}
	return nil
}

// DeleteTriple removes all edges matching the exact source name,
// relationship type and destination name within the user's graph.
func (s *MemoryDBStore) DeleteTriple(
	ctx context.Context,
	userID, source, relationship, destination string,
) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	_, err := s.conn.Exec(ctx, `
		DELETE FROM relationships r
		USING entities s, entities d
		WHERE r.source_id = s.id AND r.destination_id = d.id
		  AND s.user_id = $1 AND d.user_id = $1
		  AND s.name = $2 AND r.type = $3 AND d.name = $4`,
		userID, source, relationship, destination,
	)
	if err != nil {
		return fmt.Errorf("delete triple: %w", err)
	}
	return nil
}

// AllRelations lists the user's triples, most recently updated first.
func (s *MemoryDBStore) AllRelations(ctx context.Context, userID string, limit int) ([]common.Triple, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.Query(ctx, `
		SELECT s.name, r.type, d.name
		FROM relationships r
		JOIN entities s ON s.id = r.source_id
		JOIN entities d ON d.id = r.destination_id
		WHERE s.user_id = $1 AND d.user_id = $1
		ORDER BY r.updated_at DESC, r.id ASC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("all relations: %w", err)
	}
	defer rows.Close()

	triples := make([]common.Triple, 0)
	for rows.Next() {
		var t common.Triple
		if err := rows.Scan(&t.Source, &t.Relationship, &t.Destination); err != nil {
			return nil, fmt.Errorf("all relations: %w", err)
		}
		triples = append(triples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("all relations: %w", err)
	}
	return triples, nil
}
