package driven

import (
	"context"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// VectorIndex holds indexed vectors and answers nearest-neighbour queries.
// It is filled once and read concurrently afterwards.
type VectorIndex interface {
	// Add appends vectors in order. Insertion order breaks similarity ties.
	Add(ctx context.Context, vectors []domain.IndexedVector) error

	// Search finds the k most similar vectors, most similar first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Vectors returns a copy of all stored vectors in insertion order.
	Vectors() []domain.IndexedVector

	// Len returns the number of stored vectors.
	Len() int

	// Reset removes all vectors.
	Reset()
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}
