package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/common"
)

type deleteDecision struct {
	DeleteType string `json:"delete_type"`
	EntityID   string `json:"entity_id"`
}

// decideDelete asks the model for a single typed delete instruction against
// the existing memories. A failed decision propagates.
func (e *Engine) decideDelete(
	ctx context.Context,
	userID, request string,
	memories []common.Relation,
) (deleteDecision, error) {
	prompt := ai.RenderPrompt(ai.DeleteDecisionPrompt, map[string]string{"USER_ID": userID})
	userMsg := fmt.Sprintf("Here are the existing memories: %s \n\n Latest user request: %s", formatMemories(memories), request)

	decision, err := util.RetryWithContext(ctx, extractionTries, func(ctx context.Context) (deleteDecision, error) {
		var d deleteDecision
		err := e.aiClient.GenerateCompletionWithFormat(
			ctx,
			"delete_decision",
			"The delete type and target entity ID",
			userMsg,
			&d,
			ai.WithSystemPrompts(prompt),
		)
		return d, err
	})
	if err != nil {
		return deleteDecision{}, fmt.Errorf("delete decision: %w", err)
	}
	return decision, nil
}

// applyDelete executes a typed delete decision: a source delete removes the
// node with all its edges, a relationship delete removes a single edge.
func (e *Engine) applyDelete(ctx context.Context, userID string, decision deleteDecision) error {
	id, err := strconv.ParseInt(strings.TrimSpace(decision.EntityID), 10, 64)
	if err != nil {
		return fmt.Errorf("parse entity id %q: %w", decision.EntityID, err)
	}

	switch decision.DeleteType {
	case "source":
		return e.graph.DeleteEntity(ctx, userID, id)
	case "relationship":
		return e.graph.DeleteRelation(ctx, userID, id)
	default:
		return fmt.Errorf("unknown delete type %q", decision.DeleteType)
	}
}
