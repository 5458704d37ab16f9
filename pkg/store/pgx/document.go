package pgx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"
	"github.com/BrainDriveAI/memory/pkg/store"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// AddMemory chunks the content with a token bound, embeds every chunk in a
// single batch and stores one document row per chunk. Returns the generated
// document IDs in chunk order.
func (s *MemoryDBStore) AddMemory(
	ctx context.Context,
	userID, content string,
	metadata map[string]string,
) ([]string, error) {
	content = util.SanitizePostgresText(content)
	chunks, err := store.ChunkByTokens(content, store.DefaultChunkTokens)
	if err != nil {
		return nil, fmt.Errorf("chunk memory: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	inputs := make([][]byte, len(chunks))
	for i := range chunks {
		inputs[i] = []byte(chunks[i])
	}
	logger.Debug("[Store][AddMemory] Generating chunk embeddings", "chunks", len(inputs))
	embeddings, err := s.aiClient.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed memory chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding result size mismatch: got %d want %d", len(embeddings), len(chunks))
	}

	if metadata == nil {
		metadata = map[string]string{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("add memory: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(chunks))
	for i := range chunks {
		id := uuid.NewString()
		_, err := tx.Exec(ctx, `
			INSERT INTO documents (id, user_id, content, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5)`,
			id, userID, chunks[i], metaJSON, pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return nil, fmt.Errorf("insert document: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("add memory: %w", err)
	}
	return ids, nil
}

// DeleteDocuments removes the given documents of the user. Unknown IDs are
// ignored.
func (s *MemoryDBStore) DeleteDocuments(ctx context.Context, userID string, ids []string) error {
	ids = store.DedupeStrings(ids)
	if len(ids) == 0 {
		return nil
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	_, err := s.conn.Exec(ctx, `
		DELETE FROM documents WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	)
	if err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

// HybridSearch retrieves candidate documents by cosine distance, scores
// them against a full-text query and fuses both rankings with reciprocal
// rank fusion. Returns up to matchCount documents.
func (s *MemoryDBStore) HybridSearch(
	ctx context.Context,
	userID, query string,
	matchCount int,
) ([]common.Document, error) {
	if matchCount <= 0 {
		matchCount = 10
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	embedding, err := s.aiClient.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT
			d.id, d.content, d.metadata, d.created_at,
			d.embedding <=> $2 AS semantic_distance,
			ts_rank_cd(d.content_tsv, plainto_tsquery('english', $3)) AS keyword_rank,
			d.content_tsv @@ plainto_tsquery('english', $3) AS keyword_match
		FROM documents d
		WHERE d.user_id = $1
		ORDER BY semantic_distance ASC, d.id ASC
		LIMIT $4`,
		userID, pgvector.NewVector(embedding), query, candidateLimit(matchCount),
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	defer rows.Close()

	docs := make([]common.Document, 0)
	candidates := make([]hybridCandidate, 0)
	for rows.Next() {
		var (
			doc      common.Document
			metaRaw  []byte
			distance float64
			rank     float64
			matched  bool
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metaRaw, &doc.CreatedAt, &distance, &rank, &matched); err != nil {
			return nil, fmt.Errorf("hybrid search: %w", err)
		}
		if len(metaRaw) > 0 {
			if err := json.Unmarshal(metaRaw, &doc.Metadata); err != nil {
				logger.Warn("[Store][HybridSearch] Skipping malformed metadata", "doc", doc.ID, "err", err)
			}
		}
		candidates = append(candidates, hybridCandidate{
			Index:            len(docs),
			ID:               doc.ID,
			SemanticDistance: distance,
			KeywordRank:      rank,
			KeywordMatched:   matched,
		})
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	indexes := selectRerankedCandidateIndexes(candidates, matchCount)
	out := make([]common.Document, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, docs[idx])
	}
	return out, nil
}
