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

type updateDecision struct {
	UpdateType string `json:"update_type"`
	NewValue   string `json:"new_value"`
	EntityID   string `json:"entity_id"`
}

// formatMemories renders graph relations as one JSON object per line, the
// shape the mutation oracles expect.
func formatMemories(memories []common.Relation) string {
	var b strings.Builder
	for _, m := range memories {
		line := util.ConvertStructToJson(map[string]any{
			"source":         m.Source,
			"relationship":   m.Relationship,
			"destination":    m.Destination,
			"source_id":      m.SourceID,
			"relation_id":    m.RelationID,
			"destination_id": m.DestinationID,
		})
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// decideUpdate asks the model for a single typed update instruction against
// the existing memories. A failed decision propagates; nothing is mutated
// on a guess.
func (e *Engine) decideUpdate(
	ctx context.Context,
	userID, request string,
	memories []common.Relation,
) (updateDecision, error) {
	prompt := ai.RenderPrompt(ai.UpdateDecisionPrompt, map[string]string{"USER_ID": userID})
	userMsg := fmt.Sprintf("Here are the existing memories: %s \n\n Latest user request: %s", formatMemories(memories), request)

	decision, err := util.RetryWithContext(ctx, extractionTries, func(ctx context.Context) (updateDecision, error) {
		var d updateDecision
		err := e.aiClient.GenerateCompletionWithFormat(
			ctx,
			"update_decision",
			"The update type, new value and target entity ID",
			userMsg,
			&d,
			ai.WithSystemPrompts(prompt),
		)
		return d, err
	})
	if err != nil {
		return updateDecision{}, fmt.Errorf("update decision: %w", err)
	}
	return decision, nil
}

// applyUpdate executes a typed update decision against the graph. The
// mechanical apply is separate from the decision so each side can be
// exercised on its own.
func (e *Engine) applyUpdate(ctx context.Context, userID string, decision updateDecision) error {
	id, err := strconv.ParseInt(strings.TrimSpace(decision.EntityID), 10, 64)
	if err != nil {
		return fmt.Errorf("parse entity id %q: %w", decision.EntityID, err)
	}
	newValue := SanitizeName(decision.NewValue)
	if newValue == "" {
		return fmt.Errorf("empty new value in update decision")
	}

	switch decision.UpdateType {
	case "source", "destination":
		embedding, err := e.aiClient.GenerateEmbedding(ctx, []byte(newValue))
		if err != nil {
			return fmt.Errorf("embed new entity name: %w", err)
		}
		if err := e.graph.RenameEntity(ctx, userID, id, newValue, embedding); err != nil {
			return err
		}
	case "relationship":
		if err := e.graph.RetypeRelation(ctx, userID, id, newValue); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown update type %q", decision.UpdateType)
	}
	return nil
}
