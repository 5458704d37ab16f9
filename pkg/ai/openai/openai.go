package openai

import (
	"sync"

	"github.com/BrainDriveAI/memory/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// MemoryOpenAIClient is a client for the AI models used by the memory
// pipeline. It manages separate OpenAI clients for embeddings and
// chat/completion tasks.
//
// A MemoryOpenAIClient should be created using NewMemoryOpenAIClient.
type MemoryOpenAIClient struct {
	embeddingModel  string
	chatModel       string
	extractionModel string

	embeddingURL string
	embeddingKey string
	chatURL      string
	chatKey      string

	timeoutMin    int
	embeddingLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewMemoryOpenAIClientParams defines the configuration parameters for
// creating a new MemoryOpenAIClient.
//
// EmbeddingModel specifies the model used for embeddings.
// ChatModel specifies the model used for free-form generation.
// ExtractionModel specifies the model used for structured extraction.
// EmbeddingURL and EmbeddingKey configure the embedding API endpoint.
// ChatURL and ChatKey configure the chat/completion API endpoint.
// TimeoutMin bounds individual embedding requests in minutes.
// MaxConcurrentEmbeddings limits parallel embedding requests.
type NewMemoryOpenAIClientParams struct {
	EmbeddingModel  string
	ChatModel       string
	ExtractionModel string

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string

	TimeoutMin              int
	MaxConcurrentEmbeddings int64
}

// NewMemoryOpenAIClient creates and returns a new MemoryOpenAIClient
// configured with the provided parameters. It initializes separate OpenAI
// clients for embeddings and chat/completion tasks.
//
// Example:
//
//	params := openai.NewMemoryOpenAIClientParams{
//		EmbeddingModel:  "text-embedding-3-small",
//		ChatModel:       "gpt-4o-mini",
//		ExtractionModel: "gpt-4o-mini",
//		EmbeddingKey:    os.Getenv("OPENAI_API_KEY"),
//		ChatKey:         os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewMemoryOpenAIClient(params)
func NewMemoryOpenAIClient(
	params NewMemoryOpenAIClientParams,
) *MemoryOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)

	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 5
	}
	maxEmbeddings := params.MaxConcurrentEmbeddings
	if maxEmbeddings <= 0 {
		maxEmbeddings = 4
	}

	return &MemoryOpenAIClient{
		embeddingModel:  params.EmbeddingModel,
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,

		chatURL:      params.ChatURL,
		chatKey:      params.ChatKey,
		embeddingURL: params.EmbeddingURL,
		embeddingKey: params.EmbeddingKey,

		timeoutMin:    timeoutMin,
		embeddingLock: semaphore.NewWeighted(maxEmbeddings),

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
