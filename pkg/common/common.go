package common

import "time"

// Entity represents a node in the memory graph. An entity can be a person,
// place, organization, or any other concept extracted from a memory. Each
// entity belongs to exactly one user and carries an embedding of its name
// for similarity-based identity resolution.
type Entity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Relation represents a directed edge between two entities, flattened into
// the record shape used throughout retrieval and mutation. Similarity is the
// cosine similarity of the matched anchor entity when the relation was found
// through a neighborhood search, and zero otherwise.
type Relation struct {
	Source        string     `json:"source"`
	Relationship  string     `json:"relationship"`
	Destination   string     `json:"destination"`
	SourceID      int64      `json:"source_id"`
	RelationID    int64      `json:"relation_id"`
	DestinationID int64      `json:"destination_id"`
	Similarity    float64    `json:"similarity"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Triple is the minimal subject/predicate/object form of a relation,
// used for listings and for prompting.
type Triple struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Destination  string `json:"target"`
}

// Document represents a chunk of memory text stored in the vector store.
// Score is the backend's match confidence for a retrieved document, zero
// when the backend reports none.
type Document struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Score     float64           `json:"score,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
