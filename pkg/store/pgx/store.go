package pgx

import (
	"context"
	"sync"

	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// MemoryDBStore implements the GraphStore and VectorStore interfaces using
// PostgreSQL with pgvector for similarity search. Writes are serialized
// with a mutex; the AI client is used to embed documents before insert.
type MemoryDBStore struct {
	conn     pgxIConn
	aiClient ai.MemoryAIClient
	dbLock   sync.Mutex
}

var (
	_ store.GraphStore  = (*MemoryDBStore)(nil)
	_ store.VectorStore = (*MemoryDBStore)(nil)
)

// NewMemoryDBStoreWithConnection creates a new MemoryDBStore using an
// existing database connection. The AI client is used for embedding
// document chunks on write.
func NewMemoryDBStoreWithConnection(
	ctx context.Context,
	conn pgxIConn,
	aiClient ai.MemoryAIClient,
) (*MemoryDBStore, error) {
	return &MemoryDBStore{
		conn:     conn,
		aiClient: aiClient,
		dbLock:   sync.Mutex{},
	}, nil
}
