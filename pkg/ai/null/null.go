package null

import (
	"context"
	"errors"

	"github.com/BrainDriveAI/memory/pkg/ai"
)

// ErrNoBackend is returned by every model call on the null client.
var ErrNoBackend = errors.New("no ai backend configured")

// Client is a stand-in AI client for setups without a model backend. Every
// call fails with ErrNoBackend so misconfiguration surfaces immediately
// instead of silently producing empty memories.
type Client struct{}

var _ ai.MemoryAIClient = Client{}

func (Client) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", ErrNoBackend
}

func (Client) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return ErrNoBackend
}

func (Client) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, ErrNoBackend
}

func (Client) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	return nil, ErrNoBackend
}

func (Client) ResetMetrics() {}

func (Client) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }
