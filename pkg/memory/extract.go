package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"
)

const extractionTries = 2

type extractedEntities struct {
	Entities []struct {
		Entity     string `json:"entity"`
		EntityType string `json:"entity_type"`
	} `json:"entities"`
}

type extractedRelations struct {
	Entities []struct {
		Source       string `json:"source"`
		Relationship string `json:"relationship"`
		Destination  string `json:"destination"`
	} `json:"entities"`
}

// extractEntities pulls typed entities out of a memory text. Self-references
// resolve to the user ID. Extraction failures are logged and yield an empty
// map so the rest of the pipeline keeps going.
func (e *Engine) extractEntities(ctx context.Context, userID, text string) map[string]string {
	prompt := ai.RenderPrompt(ai.ExtractEntitiesPrompt, map[string]string{"USER_ID": userID})

	var out extractedEntities
	err := util.RetryErrWithContext(ctx, extractionTries, func(ctx context.Context) error {
		return e.aiClient.GenerateCompletionWithFormat(
			ctx,
			"extracted_entities",
			"Entities found in the text with their types",
			text,
			&out,
			ai.WithSystemPrompts(prompt),
		)
	})
	if err != nil {
		logger.Error("[Memory][Extract] Entity extraction failed", "err", err)
		return map[string]string{}
	}

	entities := make(map[string]string, len(out.Entities))
	for _, ent := range out.Entities {
		name := SanitizeName(ent.Entity)
		if name == "" {
			continue
		}
		entities[name] = ent.EntityType
	}
	return entities
}

// extractRelations establishes relationships among the given entities.
// Failures are logged and yield no triples.
func (e *Engine) extractRelations(ctx context.Context, userID, text string, entities map[string]string) []common.Triple {
	prompt := ai.RenderPrompt(ai.ExtractRelationsPrompt, map[string]string{"USER_ID": userID})

	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	userMsg := fmt.Sprintf("List of entities: %s. \n\nText: %s", strings.Join(names, ", "), text)

	var out extractedRelations
	err := util.RetryErrWithContext(ctx, extractionTries, func(ctx context.Context) error {
		return e.aiClient.GenerateCompletionWithFormat(
			ctx,
			"established_relations",
			"Relationships among the extracted entities",
			userMsg,
			&out,
			ai.WithSystemPrompts(prompt),
		)
	})
	if err != nil {
		logger.Error("[Memory][Extract] Relation extraction failed", "err", err)
		return nil
	}

	triples := make([]common.Triple, 0, len(out.Entities))
	for _, rel := range out.Entities {
		source := SanitizeName(rel.Source)
		relationship := SanitizeName(rel.Relationship)
		destination := SanitizeName(rel.Destination)
		if source == "" || relationship == "" || destination == "" {
			continue
		}
		triples = append(triples, common.Triple{
			Source:       source,
			Relationship: relationship,
			Destination:  destination,
		})
	}
	return triples
}
