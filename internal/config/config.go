package config

import (
	"context"

	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/ai/null"
	oll "github.com/BrainDriveAI/memory/pkg/ai/ollama"
	oai "github.com/BrainDriveAI/memory/pkg/ai/openai"
	"github.com/BrainDriveAI/memory/pkg/logger"
	"github.com/BrainDriveAI/memory/pkg/memory"
	"github.com/BrainDriveAI/memory/pkg/search"
	"github.com/BrainDriveAI/memory/pkg/store"
	storepgx "github.com/BrainDriveAI/memory/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewAIClient builds the model client selected by AI_ADAPTER. "ollama"
// targets a local Ollama server, "none" installs the erroring null client,
// anything else defaults to the OpenAI-compatible client.
func NewAIClient() ai.MemoryAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oll.NewMemoryOllamaClient(oll.NewMemoryOllamaClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			TimeoutMin:            int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	case "none":
		logger.Warn("AI_ADAPTER is 'none', model calls will fail")
		return null.Client{}
	default:
		return oai.NewMemoryOpenAIClient(oai.NewMemoryOpenAIClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),
			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),

			TimeoutMin:              int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
			MaxConcurrentEmbeddings: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
	}
}

// NewSemanticSearch builds the remote semantic-search client, or the null
// backend when SEARCH_URL is not configured.
func NewSemanticSearch() store.SemanticSearch {
	baseURL := util.GetEnv("SEARCH_URL")
	if baseURL == "" {
		logger.Debug("SEARCH_URL not set, semantic search disabled")
		return store.NullSemanticSearch{}
	}
	return search.NewClient(search.NewClientParams{
		BaseURL: baseURL,
		ApiKey:  util.GetEnv("SEARCH_KEY"),
	})
}

// NewEngine assembles the memory engine on top of an existing database pool:
// the pgvector-backed store serves both the graph and the vector documents,
// the semantic backend comes from NewSemanticSearch.
func NewEngine(ctx context.Context, conn *pgxpool.Pool, aiClient ai.MemoryAIClient) (*memory.Engine, error) {
	dbStore, err := storepgx.NewMemoryDBStoreWithConnection(ctx, conn, aiClient)
	if err != nil {
		return nil, err
	}
	return memory.NewEngine(memory.NewEngineParams{
		AIClient: aiClient,
		Graph:    dbStore,
		Vector:   dbStore,
		Semantic: NewSemanticSearch(),
	})
}
