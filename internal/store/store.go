// Package store provides the memory record store and the full-text index
// kept in lockstep with it.
package store

import (
	"context"

	"github.com/rcliao/memory-vault/internal/model"
)

// ListParams holds parameters for listing memories.
type ListParams struct {
	Limit  int
	Offset int
}

// IndexQuery holds a tokenized full-text query.
type IndexQuery struct {
	// Terms are lowercased tokens; a document must contain all of them.
	Terms []string
	Limit int
	// Column weights for bm25 ranking. Zero values use DefaultWeights.
	Weights Weights
}

// Weights are bm25 column weights.
type Weights struct {
	Title  float64
	Text   float64
	Person float64
}

// DefaultWeights favor title and person matches over body text.
var DefaultWeights = Weights{Title: 10, Text: 1, Person: 5}

// Hit is one ranked index match.
type Hit struct {
	model.Memory
	// Score is the bm25 relevance; higher is better.
	Score float64 `json:"score"`
}

// Store defines the memory storage interface. Every mutating call commits
// the record and its index entry in one transaction.
type Store interface {
	// Create assigns the next id and stores the record with its index entry.
	Create(ctx context.Context, m model.NewMemory) (*model.Memory, error)

	// Get retrieves a memory by id.
	Get(ctx context.Context, id int64) (*model.Memory, error)

	// Update applies the non-nil fields of u and re-derives the index entry.
	Update(ctx context.Context, id int64, u model.UpdateRequest) (*model.Memory, error)

	// Delete removes a memory and its index entry. Returns the media path of
	// the removed record so the caller can release the blob.
	Delete(ctx context.Context, id int64) (string, error)

	// List returns memories newest first.
	List(ctx context.Context, p ListParams) ([]model.Memory, error)

	// SearchIndex ranks memories matching all query terms.
	SearchIndex(ctx context.Context, q IndexQuery) ([]Hit, error)

	// Stats returns aggregate counts over the committed state.
	Stats(ctx context.Context) (*Stats, error)

	// Close closes the store.
	Close() error
}
