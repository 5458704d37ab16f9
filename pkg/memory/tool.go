package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BrainDriveAI/memory/internal/util"
)

// Tool is a self-describing memory verb that an agent can invoke with a
// JSON argument payload.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args string) (string, error)
}

type addArgs struct {
	UserID   string            `json:"user_id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

type searchArgs struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Query       string `json:"query"`
	ChatHistory string `json:"chat_history"`
}

type updateArgs struct {
	UserID      string            `json:"user_id"`
	Request     string            `json:"request"`
	DocumentIDs []string          `json:"document_ids"`
	Metadata    map[string]string `json:"metadata"`
}

type deleteArgs struct {
	UserID      string   `json:"user_id"`
	Request     string   `json:"request"`
	DocumentIDs []string `json:"document_ids"`
}

type getAllArgs struct {
	UserID string `json:"user_id"`
}

// Tools returns one tool per memory verb, each backed by the Engine.
func (e *Engine) Tools() []Tool {
	return []Tool{
		{
			Name:        "add_memory",
			Description: "Store a new memory: the text is saved as searchable documents and its entity relationships are written to the knowledge graph.",
			Run: func(ctx context.Context, args string) (string, error) {
				var a addArgs
				if err := json.Unmarshal([]byte(args), &a); err != nil {
					return "", fmt.Errorf("parse add arguments: %w", err)
				}
				result, err := e.Add(ctx, a.UserID, a.Content, a.Metadata)
				if err != nil {
					return "", err
				}
				return util.ConvertStructToJson(result), nil
			},
		},
		{
			Name:        "search_for_memories",
			Description: "Intelligent memory search that expands the question into strategic queries, searches every data source in parallel and returns results synthesized and ranked by relevance and recency.",
			Run: func(ctx context.Context, args string) (string, error) {
				var a searchArgs
				if err := json.Unmarshal([]byte(args), &a); err != nil {
					return "", fmt.Errorf("parse search arguments: %w", err)
				}
				return e.Search(ctx, a.UserID, a.Username, a.Query, a.ChatHistory)
			},
		},
		{
			Name:        "update_memory",
			Description: "Replace an outdated memory: old documents are removed, the new text is stored and the knowledge graph is corrected accordingly.",
			Run: func(ctx context.Context, args string) (string, error) {
				var a updateArgs
				if err := json.Unmarshal([]byte(args), &a); err != nil {
					return "", fmt.Errorf("parse update arguments: %w", err)
				}
				result, err := e.Update(ctx, a.UserID, a.Request, a.DocumentIDs, a.Metadata)
				if err != nil {
					return "", err
				}
				return util.ConvertStructToJson(result), nil
			},
		},
		{
			Name:        "delete_memory",
			Description: "Delete a memory: the named documents are removed from the vector store, then the request is matched against the graph and the selected entity or relationship is removed.",
			Run: func(ctx context.Context, args string) (string, error) {
				var a deleteArgs
				if err := json.Unmarshal([]byte(args), &a); err != nil {
					return "", fmt.Errorf("parse delete arguments: %w", err)
				}
				if err := e.Delete(ctx, a.UserID, a.Request, a.DocumentIDs); err != nil {
					return "", err
				}
				return util.ConvertStructToJson(map[string]any{"deleted": a.DocumentIDs}), nil
			},
		},
		{
			Name:        "get_all_memories",
			Description: "List the stored memory relationships for a user as source, relationship and target triples.",
			Run: func(ctx context.Context, args string) (string, error) {
				var a getAllArgs
				if err := json.Unmarshal([]byte(args), &a); err != nil {
					return "", fmt.Errorf("parse get_all arguments: %w", err)
				}
				triples, err := e.GetAll(ctx, a.UserID)
				if err != nil {
					return "", err
				}
				return util.ConvertStructToJson(triples), nil
			},
		},
	}
}
