package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/store"
)

// fakeEmbed derives a deterministic vector from the input so equal texts
// always resolve to equal embeddings.
func fakeEmbed(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	sum := h.Sum64()
	return []float32{
		float32(sum % 997),
		float32((sum >> 16) % 991),
		float32((sum >> 32) % 983),
	}
}

func vectorsEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type fakeAI struct {
	entities    map[string]string
	relations   []common.Triple
	queries     []string
	update      updateDecision
	deletion    deleteDecision
	formatErr   map[string]error
	formatCalls []string
}

var _ ai.MemoryAIClient = (*fakeAI)(nil)

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", nil
}

func (f *fakeAI) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.formatCalls = append(f.formatCalls, name)
	if err := f.formatErr[name]; err != nil {
		return err
	}

	var payload any
	switch name {
	case "extracted_entities":
		items := make([]map[string]string, 0, len(f.entities))
		names := make([]string, 0, len(f.entities))
		for n := range f.entities {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			items = append(items, map[string]string{"entity": n, "entity_type": f.entities[n]})
		}
		payload = map[string]any{"entities": items}
	case "established_relations":
		items := make([]map[string]string, 0, len(f.relations))
		for _, t := range f.relations {
			items = append(items, map[string]string{
				"source":       t.Source,
				"relationship": t.Relationship,
				"destination":  t.Destination,
			})
		}
		payload = map[string]any{"entities": items}
	case "strategic_queries":
		payload = map[string]any{"queries": f.queries}
	case "update_decision":
		payload = f.update
	case "delete_decision":
		payload = f.deletion
	default:
		return fmt.Errorf("unexpected format call %q", name)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeAI) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return fakeEmbed(string(input)), nil
}

func (f *fakeAI) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = fakeEmbed(string(inputs[i]))
	}
	return out, nil
}

func (f *fakeAI) ResetMetrics() {}

func (f *fakeAI) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeEdge struct {
	id        int64
	sourceID  int64
	destID    int64
	relType   string
	createdAt time.Time
	updatedAt time.Time
}

type fakeGraph struct {
	nextEntityID int64
	nextEdgeID   int64
	entities     map[int64]common.Entity
	embeddings   map[int64][]float32
	edges        map[int64]fakeEdge
}

var _ store.GraphStore = (*fakeGraph)(nil)

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		entities:   make(map[int64]common.Entity),
		embeddings: make(map[int64][]float32),
		edges:      make(map[int64]fakeEdge),
	}
}

func (g *fakeGraph) seedEntity(userID, name string) int64 {
	id, _ := g.CreateEntity(context.Background(), userID, name, "seed", fakeEmbed(name))
	return id
}

func (g *fakeGraph) seedEdge(sourceID, destID int64, relType string) int64 {
	id, _ := g.MergeRelation(context.Background(), sourceID, destID, relType)
	return id
}

func (g *fakeGraph) FindNearestEntity(ctx context.Context, userID string, embedding []float32, threshold float64) (*common.Entity, error) {
	var best *common.Entity
	for id, ent := range g.entities {
		if ent.UserID != userID {
			continue
		}
		if !vectorsEqual(g.embeddings[id], embedding) {
			continue
		}
		if best == nil || ent.ID < best.ID {
			e := ent
			best = &e
		}
	}
	return best, nil
}

func (g *fakeGraph) CreateEntity(ctx context.Context, userID, name, entityType string, embedding []float32) (int64, error) {
	for id, ent := range g.entities {
		if ent.UserID == userID && ent.Name == name {
			ent.UpdatedAt = time.Now()
			g.entities[id] = ent
			return id, nil
		}
	}
	g.nextEntityID++
	id := g.nextEntityID
	now := time.Now()
	g.entities[id] = common.Entity{
		ID:        id,
		Name:      name,
		Type:      entityType,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.embeddings[id] = embedding
	return id, nil
}

func (g *fakeGraph) MergeRelation(ctx context.Context, sourceID, destinationID int64, relationType string) (int64, error) {
	for id, e := range g.edges {
		if e.sourceID == sourceID && e.destID == destinationID && e.relType == relationType {
			e.updatedAt = time.Now()
			g.edges[id] = e
			return id, nil
		}
	}
	g.nextEdgeID++
	id := g.nextEdgeID
	now := time.Now()
	g.edges[id] = fakeEdge{
		id:        id,
		sourceID:  sourceID,
		destID:    destinationID,
		relType:   relationType,
		createdAt: now,
		updatedAt: now,
	}
	return id, nil
}

func (g *fakeGraph) NeighborhoodByEmbedding(ctx context.Context, userID string, embedding []float32, threshold float64, limit int) ([]common.Relation, error) {
	matched := make(map[int64]struct{})
	for id, ent := range g.entities {
		if ent.UserID == userID && vectorsEqual(g.embeddings[id], embedding) {
			matched[id] = struct{}{}
		}
	}

	relations := make([]common.Relation, 0)
	ids := make([]int64, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e := g.edges[id]
		_, srcMatch := matched[e.sourceID]
		_, dstMatch := matched[e.destID]
		if !srcMatch && !dstMatch {
			continue
		}
		src := g.entities[e.sourceID]
		dst := g.entities[e.destID]
		created := e.createdAt
		updated := e.updatedAt
		relations = append(relations, common.Relation{
			Source:        src.Name,
			SourceID:      src.ID,
			Relationship:  e.relType,
			RelationID:    e.id,
			Destination:   dst.Name,
			DestinationID: dst.ID,
			Similarity:    1.0,
			CreatedAt:     &created,
			UpdatedAt:     &updated,
		})
		if len(relations) >= limit {
			break
		}
	}
	return relations, nil
}

func (g *fakeGraph) RenameEntity(ctx context.Context, userID string, id int64, name string, embedding []float32) error {
	ent, ok := g.entities[id]
	if !ok || ent.UserID != userID {
		return fmt.Errorf("no entity %d for user", id)
	}
	ent.Name = name
	ent.UpdatedAt = time.Now()
	g.entities[id] = ent
	g.embeddings[id] = embedding
	return nil
}

func (g *fakeGraph) RetypeRelation(ctx context.Context, userID string, id int64, relationType string) error {
	e, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("no relation %d for user", id)
	}
	e.relType = relationType
	e.updatedAt = time.Now()
	g.edges[id] = e
	return nil
}

func (g *fakeGraph) DeleteEntity(ctx context.Context, userID string, id int64) error {
	ent, ok := g.entities[id]
	if !ok || ent.UserID != userID {
		return fmt.Errorf("no entity %d for user", id)
	}
	delete(g.entities, id)
	delete(g.embeddings, id)
	for edgeID, e := range g.edges {
		if e.sourceID == id || e.destID == id {
			delete(g.edges, edgeID)
		}
	}
	return nil
}

func (g *fakeGraph) DeleteRelation(ctx context.Context, userID string, id int64) error {
	if _, ok := g.edges[id]; !ok {
		return fmt.Errorf("no relation %d for user", id)
	}
	delete(g.edges, id)
	return nil
}

func (g *fakeGraph) DeleteTriple(ctx context.Context, userID, source, relationship, destination string) error {
	for id, e := range g.edges {
		src := g.entities[e.sourceID]
		dst := g.entities[e.destID]
		if src.UserID == userID && src.Name == source && e.relType == relationship && dst.Name == destination {
			delete(g.edges, id)
		}
	}
	return nil
}

func (g *fakeGraph) AllRelations(ctx context.Context, userID string, limit int) ([]common.Triple, error) {
	ids := make([]int64, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return g.edges[ids[i]].updatedAt.After(g.edges[ids[j]].updatedAt)
	})

	triples := make([]common.Triple, 0)
	for _, id := range ids {
		e := g.edges[id]
		src := g.entities[e.sourceID]
		dst := g.entities[e.destID]
		if src.UserID != userID {
			continue
		}
		triples = append(triples, common.Triple{
			Source:       src.Name,
			Relationship: e.relType,
			Destination:  dst.Name,
		})
		if len(triples) >= limit {
			break
		}
	}
	return triples, nil
}

type fakeVector struct {
	added     []string
	deleted   []string
	searchOut []common.Document
	nextID    int
	deleteErr error
	searchErr error
}

var _ store.VectorStore = (*fakeVector)(nil)

func (v *fakeVector) AddMemory(ctx context.Context, userID, content string, metadata map[string]string) ([]string, error) {
	v.added = append(v.added, content)
	v.nextID++
	return []string{fmt.Sprintf("doc-%d", v.nextID)}, nil
}

func (v *fakeVector) DeleteDocuments(ctx context.Context, userID string, ids []string) error {
	if v.deleteErr != nil {
		return v.deleteErr
	}
	v.deleted = append(v.deleted, ids...)
	return nil
}

func (v *fakeVector) HybridSearch(ctx context.Context, userID, query string, matchCount int) ([]common.Document, error) {
	if v.searchErr != nil {
		return nil, v.searchErr
	}
	return v.searchOut, nil
}

type fakeSemantic struct {
	out []common.Document
	err error
}

var _ store.SemanticSearch = (*fakeSemantic)(nil)

func (s *fakeSemantic) Retrieve(ctx context.Context, query string) ([]common.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}
