package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/BrainDriveAI/memory/pkg/common"
)

func edgeAt(source, rel, dest string, updated time.Time) common.Relation {
	created := updated.Add(-24 * time.Hour)
	return common.Relation{
		Source:       source,
		Relationship: rel,
		Destination:  dest,
		CreatedAt:    &created,
		UpdatedAt:    &updated,
	}
}

func TestRerankGraphEdges_KeywordMatch(t *testing.T) {
	now := time.Now()
	relations := []common.Relation{
		edgeAt("alex", "works_at", "tesla", now.Add(-3*time.Hour)),
		edgeAt("alex", "loves_to_eat", "pizza", now.Add(-2*time.Hour)),
		edgeAt("alex", "lives_in", "berlin", now.Add(-1*time.Hour)),
	}

	out := rerankGraphEdges("what does alex eat", relations, 3)
	if len(out) == 0 {
		t.Fatal("expected reranked edges, got none")
	}
	if !strings.Contains(out[0].Text, "pizza") {
		t.Fatalf("expected pizza edge first, got %q", out[0].Text)
	}
	if !strings.Contains(out[0].Text, "created:") {
		t.Fatalf("expected timestamps in matched edge text, got %q", out[0].Text)
	}
	if out[0].Score != 1.0 {
		t.Fatalf("expected best match normalized to 1.0, got %v", out[0].Score)
	}
	for _, kw := range out[1:] {
		if kw.Score < 0 || kw.Score > out[0].Score {
			t.Fatalf("expected scores in [0, 1] descending from the best match, got %v", kw.Score)
		}
	}
}

func TestRerankGraphEdges_TopKBound(t *testing.T) {
	now := time.Now()
	relations := make([]common.Relation, 0, 6)
	for i := 0; i < 6; i++ {
		relations = append(relations, edgeAt("alex", "likes", "hiking", now.Add(-time.Duration(i)*time.Hour)))
	}

	out := rerankGraphEdges("alex likes hiking", relations, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
}

func TestRerankGraphEdges_RecencyFallback(t *testing.T) {
	now := time.Now()
	relations := []common.Relation{
		edgeAt("alex", "works_at", "tesla", now.Add(-48*time.Hour)),
		edgeAt("alex", "lives_in", "berlin", now),
	}

	// query shares no vocabulary with any edge
	out := rerankGraphEdges("zzz qqq xxx", relations, 3)
	if len(out) != 2 {
		t.Fatalf("expected 2 fallback results, got %d", len(out))
	}
	if !strings.Contains(out[0].Text, "berlin") {
		t.Fatalf("expected most recent edge first in fallback, got %q", out[0].Text)
	}
	if strings.Contains(out[0].Text, "created:") {
		t.Fatalf("fallback edges should not carry timestamps, got %q", out[0].Text)
	}
	for _, kw := range out {
		if kw.Score != 0 {
			t.Fatalf("fallback edges should carry no score, got %v", kw.Score)
		}
	}
}

func TestRerankGraphEdges_Empty(t *testing.T) {
	if out := rerankGraphEdges("anything", nil, 3); out != nil {
		t.Fatalf("expected nil for no edges, got %v", out)
	}
}

func TestRerankGraphEdges_HumanizesNames(t *testing.T) {
	now := time.Now()
	relations := []common.Relation{
		edgeAt("alex", "loves_to_eat", "deep_dish_pizza", now),
	}
	out := rerankGraphEdges("pizza", relations, 1)
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	if !strings.Contains(out[0].Text, "loves to eat") || !strings.Contains(out[0].Text, "deep dish pizza") {
		t.Fatalf("expected humanized relationship and destination, got %q", out[0].Text)
	}
}

func TestBM25Scores_RewardsRarerTerms(t *testing.T) {
	docs := [][]string{
		tokenize("alex enjoys hiking in the mountains"),
		tokenize("alex enjoys cooking at home"),
		tokenize("alex enjoys hiking and climbing"),
	}
	scores := bm25Scores("cooking", docs)
	if scores[1] <= scores[0] || scores[1] <= scores[2] {
		t.Fatalf("expected document with rare term to score highest, got %v", scores)
	}
}
