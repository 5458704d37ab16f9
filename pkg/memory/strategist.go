package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrainDriveAI/memory/pkg/ai"
)

const (
	minStrategicQueries = 2
	maxStrategicQueries = 6
)

type strategicQueries struct {
	Queries []string `json:"queries"`
}

// generateQueries expands one user question into 2-6 strategically distinct
// search queries. The bound is validated hard: an out-of-bounds answer is
// an error, never silently trimmed.
func (e *Engine) generateQueries(
	ctx context.Context,
	username, input, chatHistory string,
) ([]string, error) {
	name := username
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	prompt := ai.RenderPrompt(ai.StrategistPrompt, map[string]string{"USERNAME": name})

	userMsg := fmt.Sprintf("User Input: %s", input)
	if strings.TrimSpace(chatHistory) != "" {
		userMsg += fmt.Sprintf("\n\nChat History: %s", chatHistory)
	}

	var out strategicQueries
	err := e.aiClient.GenerateCompletionWithFormat(
		ctx,
		"strategic_queries",
		"Strategically distinct search queries for the user input",
		userMsg,
		&out,
		ai.WithSystemPrompts(prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("generate strategic queries: %w", err)
	}

	queries := make([]string, 0, len(out.Queries))
	for _, q := range out.Queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
	}

	if len(queries) < minStrategicQueries || len(queries) > maxStrategicQueries {
		return nil, fmt.Errorf("expected %d-%d strategic queries, got %d", minStrategicQueries, maxStrategicQueries, len(queries))
	}
	return queries, nil
}
