// Package memory provides an in-memory brute-force vector index.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores vectors in insertion order and scores every vector against
// the query by cosine similarity. Safe for concurrent readers.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   []domain.IndexedVector
	norms     []float64
}

// New creates an empty index. The dimension is fixed by the first Add.
func New() *Index {
	return &Index{}
}

// Add appends vectors. All vectors must share one dimension.
func (x *Index) Add(_ context.Context, vectors []domain.IndexedVector) error {
	if len(vectors) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dim := x.dimension
	if dim == 0 {
		dim = len(vectors[0].Embedding)
	}
	if dim == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}
	for i, v := range vectors {
		if len(v.Embedding) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index has %d",
				domain.ErrInvalidInput, i, len(v.Embedding), dim)
		}
	}

	x.dimension = dim
	for _, v := range vectors {
		x.vectors = append(x.vectors, v)
		x.norms = append(x.norms, norm(v.Embedding))
	}
	return nil
}

// Search returns up to k hits by descending similarity. Equal scores keep
// insertion order.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.vectors) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrInvalidInput, len(query), x.dimension)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	qNorm := norm(query)
	hits := make([]driven.VectorHit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = driven.VectorHit{
			Chunk:      v.Chunk,
			Similarity: cosine(query, v.Embedding, qNorm, x.norms[i]),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Vectors returns a copy of all stored vectors in insertion order.
func (x *Index) Vectors() []domain.IndexedVector {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]domain.IndexedVector, len(x.vectors))
	copy(out, x.vectors)
	return out
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Dimension returns the vector size, or 0 when empty.
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimension
}

// Reset removes all vectors.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.dimension = 0
	x.vectors = nil
	x.norms = nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero length.
func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
