package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BrainDriveAI/memory/pkg/common"
)

func newTestEngine(t *testing.T, aiClient *fakeAI, graph *fakeGraph, vector *fakeVector, semantic *fakeSemantic) *Engine {
	t.Helper()
	engine, err := NewEngine(NewEngineParams{
		AIClient: aiClient,
		Graph:    graph,
		Vector:   vector,
		Semantic: semantic,
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	if _, err := NewEngine(NewEngineParams{Graph: newFakeGraph()}); err == nil {
		t.Fatal("expected error without ai client")
	}
	if _, err := NewEngine(NewEngineParams{AIClient: &fakeAI{}}); err == nil {
		t.Fatal("expected error without graph store")
	}

	// vector and semantic fall back to the null backends
	engine, err := NewEngine(NewEngineParams{AIClient: &fakeAI{}, Graph: newFakeGraph()})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine.vector == nil || engine.semantic == nil {
		t.Fatal("expected null backends to be wired in")
	}
}

func TestAddStoresDocumentsAndTriples(t *testing.T) {
	aiClient := &fakeAI{
		entities: map[string]string{"alex": "person", "pizza": "food"},
		relations: []common.Triple{
			{Source: "alex", Relationship: "loves_to_eat", Destination: "pizza"},
		},
	}
	graph := newFakeGraph()
	vector := &fakeVector{}
	engine := newTestEngine(t, aiClient, graph, vector, &fakeSemantic{})

	result, err := engine.Add(context.Background(), "user-1", "Alex loves pizza", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if len(result.DocumentIDs) != 1 {
		t.Fatalf("expected 1 document ID, got %d", len(result.DocumentIDs))
	}
	if len(result.Relations) != 1 {
		t.Fatalf("expected 1 written relation, got %d", len(result.Relations))
	}
	if got := result.Relations[0]; got.Source != "alex" || got.Relationship != "loves_to_eat" || got.Destination != "pizza" {
		t.Fatalf("unexpected relation written: %+v", got)
	}
	if len(graph.entities) != 2 {
		t.Fatalf("expected 2 graph entities, got %d", len(graph.entities))
	}
	if len(graph.edges) != 1 {
		t.Fatalf("expected 1 graph edge, got %d", len(graph.edges))
	}
	if len(vector.added) != 1 || vector.added[0] != "Alex loves pizza" {
		t.Fatalf("unexpected vector adds: %v", vector.added)
	}
}

func TestAddMergesRepeatedContent(t *testing.T) {
	aiClient := &fakeAI{
		entities: map[string]string{"alex": "person", "pizza": "food"},
		relations: []common.Triple{
			{Source: "alex", Relationship: "loves_to_eat", Destination: "pizza"},
		},
	}
	graph := newFakeGraph()
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	for i := 0; i < 3; i++ {
		if _, err := engine.Add(context.Background(), "user-1", "Alex loves pizza", nil); err != nil {
			t.Fatalf("Add %d failed: %v", i, err)
		}
	}

	if len(graph.entities) != 2 {
		t.Fatalf("expected repeated adds to resolve to the same 2 entities, got %d", len(graph.entities))
	}
	if len(graph.edges) != 1 {
		t.Fatalf("expected repeated adds to merge into 1 edge, got %d", len(graph.edges))
	}
}

func TestAddExtractionFailureKeepsDocument(t *testing.T) {
	aiClient := &fakeAI{
		formatErr: map[string]error{"extracted_entities": errors.New("model unavailable")},
	}
	graph := newFakeGraph()
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	result, err := engine.Add(context.Background(), "user-1", "Alex loves pizza", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(result.DocumentIDs) != 1 {
		t.Fatalf("expected the document to still be stored, got %d IDs", len(result.DocumentIDs))
	}
	if len(result.Relations) != 0 {
		t.Fatalf("expected no relations on extraction failure, got %d", len(result.Relations))
	}
	if len(graph.entities) != 0 {
		t.Fatalf("expected untouched graph, got %d entities", len(graph.entities))
	}
}

func TestUpdateRenamesDestination(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	chuckID := graph.seedEntity("user-1", "chuck")
	graph.seedEdge(alexID, chuckID, "nickname")

	aiClient := &fakeAI{
		entities: map[string]string{"alex": "person"},
		update:   updateDecision{UpdateType: "destination", NewValue: "ben", EntityID: "2"},
	}
	vector := &fakeVector{}
	engine := newTestEngine(t, aiClient, graph, vector, &fakeSemantic{})

	result, err := engine.Update(context.Background(), "user-1", "Alex's nickname is Ben now", []string{"doc-old"}, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if got := graph.entities[chuckID].Name; got != "ben" {
		t.Fatalf("expected destination renamed to %q, got %q", "ben", got)
	}
	if !vectorsEqual(graph.embeddings[chuckID], fakeEmbed("ben")) {
		t.Fatal("expected the renamed entity to carry a fresh embedding")
	}
	if len(vector.deleted) != 1 || vector.deleted[0] != "doc-old" {
		t.Fatalf("expected old document deleted, got %v", vector.deleted)
	}
	if len(result.DocumentIDs) != 1 {
		t.Fatalf("expected the new document stored, got %d IDs", len(result.DocumentIDs))
	}
}

func TestUpdateRetypesRelationship(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	googleID := graph.seedEntity("user-1", "google")
	edgeID := graph.seedEdge(alexID, googleID, "works_at")

	aiClient := &fakeAI{
		entities: map[string]string{"alex": "person"},
		update:   updateDecision{UpdateType: "relationship", NewValue: "worked_at", EntityID: "1"},
	}
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	if _, err := engine.Update(context.Background(), "user-1", "Alex left Google", nil, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := graph.edges[edgeID].relType; got != "worked_at" {
		t.Fatalf("expected relation retyped to %q, got %q", "worked_at", got)
	}
}

func TestUpdateDecisionFailureLeavesGraphUntouched(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	chuckID := graph.seedEntity("user-1", "chuck")
	graph.seedEdge(alexID, chuckID, "nickname")

	aiClient := &fakeAI{
		entities:  map[string]string{"alex": "person"},
		formatErr: map[string]error{"update_decision": errors.New("model unavailable")},
	}
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	_, err := engine.Update(context.Background(), "user-1", "Alex's nickname is Ben now", nil, nil)
	if err == nil {
		t.Fatal("expected a failed decision to abort the update")
	}
	if got := graph.entities[chuckID].Name; got != "chuck" {
		t.Fatalf("expected graph untouched, destination is now %q", got)
	}
}

func TestUpdateSkipsDecisionWithoutMatchingMemories(t *testing.T) {
	graph := newFakeGraph()
	aiClient := &fakeAI{
		entities: map[string]string{"alex": "person"},
	}
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	if _, err := engine.Update(context.Background(), "user-1", "Alex's nickname is Ben now", nil, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	for _, call := range aiClient.formatCalls {
		if call == "update_decision" {
			t.Fatal("expected no update decision when nothing in the graph matched")
		}
	}
}

func TestDeleteRemovesEntityWithEdges(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	pizzaID := graph.seedEntity("user-1", "pizza")
	graph.seedEdge(alexID, pizzaID, "loves_to_eat")

	aiClient := &fakeAI{
		entities: map[string]string{"pizza": "food"},
		deletion: deleteDecision{DeleteType: "source", EntityID: "2"},
	}
	vector := &fakeVector{}
	engine := newTestEngine(t, aiClient, graph, vector, &fakeSemantic{})

	if err := engine.Delete(context.Background(), "user-1", "Forget that I like pizza", []string{"doc-1", "doc-2"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(vector.deleted) != 2 || vector.deleted[0] != "doc-1" || vector.deleted[1] != "doc-2" {
		t.Fatalf("expected both documents removed from the vector store, got %v", vector.deleted)
	}
	if _, ok := graph.entities[pizzaID]; ok {
		t.Fatal("expected the pizza entity to be deleted")
	}
	if len(graph.edges) != 0 {
		t.Fatalf("expected cascading edge delete, %d edges left", len(graph.edges))
	}
}

func TestDeleteRemovesSingleRelationship(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	pizzaID := graph.seedEntity("user-1", "pizza")
	edgeID := graph.seedEdge(alexID, pizzaID, "loves_to_eat")

	aiClient := &fakeAI{
		entities: map[string]string{"pizza": "food"},
		deletion: deleteDecision{DeleteType: "relationship", EntityID: "1"},
	}
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	if err := engine.Delete(context.Background(), "user-1", "Forget that I like pizza", nil); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := graph.edges[edgeID]; ok {
		t.Fatal("expected the edge to be deleted")
	}
	if len(graph.entities) != 2 {
		t.Fatalf("expected both entities to survive, got %d", len(graph.entities))
	}
}

func TestDeleteAbortsWhenDocumentDeleteFails(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	pizzaID := graph.seedEntity("user-1", "pizza")
	graph.seedEdge(alexID, pizzaID, "loves_to_eat")

	aiClient := &fakeAI{
		entities: map[string]string{"pizza": "food"},
		deletion: deleteDecision{DeleteType: "source", EntityID: "2"},
	}
	vector := &fakeVector{deleteErr: errors.New("store unavailable")}
	engine := newTestEngine(t, aiClient, graph, vector, &fakeSemantic{})

	err := engine.Delete(context.Background(), "user-1", "Forget that I like pizza", []string{"doc-1"})
	if err == nil {
		t.Fatal("expected a failed document delete to abort")
	}
	if _, ok := graph.entities[pizzaID]; !ok {
		t.Fatal("expected graph untouched when the document delete fails")
	}
	if len(aiClient.formatCalls) != 0 {
		t.Fatalf("expected no model calls after the abort, got %v", aiClient.formatCalls)
	}
}

func TestDeleteWithoutMatchesIsANoop(t *testing.T) {
	graph := newFakeGraph()
	aiClient := &fakeAI{
		entities: map[string]string{"pizza": "food"},
	}
	engine := newTestEngine(t, aiClient, graph, &fakeVector{}, &fakeSemantic{})

	if err := engine.Delete(context.Background(), "user-1", "Forget that I like pizza", nil); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	for _, call := range aiClient.formatCalls {
		if call == "delete_decision" {
			t.Fatal("expected no delete decision when nothing in the graph matched")
		}
	}
}

func TestSearchProducesSynthesizedReport(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	pizzaID := graph.seedEntity("user-1", "pizza")
	graph.seedEdge(alexID, pizzaID, "loves_to_eat")

	aiClient := &fakeAI{
		queries: []string{"pizza", "alex"},
	}
	vector := &fakeVector{
		searchOut: []common.Document{
			{ID: "doc-1", Content: "Alex mentioned loving pizza with extra cheese on Fridays.", Metadata: map[string]string{"source": "chat"}},
		},
	}
	semantic := &fakeSemantic{
		out: []common.Document{
			{ID: "sem-1", Content: "A long standing preference for Italian food was recorded."},
		},
	}
	engine := newTestEngine(t, aiClient, graph, vector, semantic)

	report, err := engine.Search(context.Background(), "user-1", "alex", "what does alex like to eat", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for _, want := range []string{
		"=== INTELLIGENT MEMORY SEARCH RESULTS ===",
		"Analyzed 2 strategic queries across all data sources",
		"📄 DOCUMENT MEMORIES",
		"🔗 RELATIONSHIP MEMORIES",
		"🤖 AI-ENHANCED SEARCH",
		"alex → loves to eat → pizza",
		"📁 Source: chat",
		"ranked by relevance.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestSearchSurvivesFailingBackends(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	pizzaID := graph.seedEntity("user-1", "pizza")
	graph.seedEdge(alexID, pizzaID, "loves_to_eat")

	aiClient := &fakeAI{
		queries: []string{"pizza", "alex"},
	}
	vector := &fakeVector{searchErr: errors.New("vector store down")}
	semantic := &fakeSemantic{err: errors.New("search service down")}
	engine := newTestEngine(t, aiClient, graph, vector, semantic)

	report, err := engine.Search(context.Background(), "user-1", "alex", "what does alex like to eat", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !strings.Contains(report, "🔗 RELATIONSHIP MEMORIES") {
		t.Errorf("report missing graph results:\n%s", report)
	}
	if !strings.Contains(report, "alex → loves to eat → pizza") {
		t.Errorf("report missing the surviving edge:\n%s", report)
	}
	if strings.Contains(report, "📄 DOCUMENT MEMORIES") {
		t.Errorf("report should carry no document section when the vector branch fails:\n%s", report)
	}
	if strings.Contains(report, "🤖 AI-ENHANCED SEARCH") {
		t.Errorf("report should carry no semantic section when the search service fails:\n%s", report)
	}
}

func TestSearchRejectsOutOfBoundsQueryCount(t *testing.T) {
	aiClient := &fakeAI{queries: []string{"only one"}}
	engine := newTestEngine(t, aiClient, newFakeGraph(), &fakeVector{}, &fakeSemantic{})

	_, err := engine.Search(context.Background(), "user-1", "alex", "anything", "")
	if err == nil {
		t.Fatal("expected an error for a single strategic query")
	}
	if !strings.Contains(err.Error(), "strategic queries") {
		t.Fatalf("unexpected error: %v", err)
	}

	aiClient.queries = []string{"a", "b", "c", "d", "e", "f", "g"}
	if _, err := engine.Search(context.Background(), "user-1", "alex", "anything", ""); err == nil {
		t.Fatal("expected an error for seven strategic queries")
	}
}

func TestSearchDropsBlankQueries(t *testing.T) {
	aiClient := &fakeAI{queries: []string{" pizza ", "", "  ", "alex"}}
	engine := newTestEngine(t, aiClient, newFakeGraph(), &fakeVector{}, &fakeSemantic{})

	queries, err := engine.generateQueries(context.Background(), "alex", "what does alex eat", "")
	if err != nil {
		t.Fatalf("generateQueries failed: %v", err)
	}
	if len(queries) != 2 || queries[0] != "pizza" || queries[1] != "alex" {
		t.Fatalf("unexpected queries: %v", queries)
	}
}

func TestGetAllReturnsTriples(t *testing.T) {
	graph := newFakeGraph()
	alexID := graph.seedEntity("user-1", "alex")
	pizzaID := graph.seedEntity("user-1", "pizza")
	graph.seedEdge(alexID, pizzaID, "loves_to_eat")

	engine := newTestEngine(t, &fakeAI{}, graph, &fakeVector{}, &fakeSemantic{})

	triples, err := engine.GetAll(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(triples))
	}
	if got := triples[0]; got.Source != "alex" || got.Relationship != "loves_to_eat" || got.Destination != "pizza" {
		t.Fatalf("unexpected triple: %+v", got)
	}

	other, err := engine.GetAll(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no triples for another user, got %d", len(other))
	}
}
