package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/logger"
)

// IndexService embeds chunks into a vector index and answers similarity queries.
type IndexService struct {
	embedder  driven.EmbeddingService
	vectors   driven.VectorIndex
	store     driven.IndexStore
	batchSize int
}

// NewIndexService creates a new index service.
// The store parameter is optional (can be nil); without it Open always builds.
func NewIndexService(
	embedder driven.EmbeddingService,
	vectors driven.VectorIndex,
	store driven.IndexStore,
	batchSize int,
) *IndexService {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	return &IndexService{
		embedder:  embedder,
		vectors:   vectors,
		store:     store,
		batchSize: batchSize,
	}
}

// Build embeds every chunk and replaces the index contents. It is
// all-or-nothing: on any failure the index is left empty.
func (s *IndexService) Build(ctx context.Context, chunks []domain.Chunk) error {
	logger.Section("Index Build")
	s.vectors.Reset()

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}

	if err := s.vectors.Add(ctx, vectors); err != nil {
		s.vectors.Reset()
		return fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}

	logger.Info("Indexed %d chunks", len(vectors))
	return nil
}

// embedChunks embeds chunk texts in batches, preserving chunk order.
func (s *IndexService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.IndexedVector, error) {
	vectors := make([]domain.IndexedVector, 0, len(chunks))
	dims := s.embedder.Dimensions()

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		logger.Debug("Embedding chunks %d-%d of %d", start+1, end, len(chunks))
		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(embeddings) != len(batch) {
			return nil, fmt.Errorf("embed batch at %d: got %d embeddings for %d texts",
				start, len(embeddings), len(batch))
		}

		for i, e := range embeddings {
			if dims == 0 {
				dims = len(e)
			}
			if len(e) == 0 || len(e) != dims {
				return nil, fmt.Errorf("chunk %d: embedding has dimension %d, expected %d", start+i, len(e), dims)
			}
			vectors = append(vectors, domain.IndexedVector{Embedding: e, Chunk: batch[i]})
		}
	}

	return vectors, nil
}

// Retrieve returns up to k chunks most similar to query, ranked from 1.
// k <= 0 uses domain.DefaultTopK. An empty index yields no results.
func (s *IndexService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		k = domain.DefaultTopK
	}
	if s.vectors.Len() == 0 {
		logger.Debug("Index is empty, skipping retrieval")
		return []domain.RetrievalResult{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}

	hits, err := s.vectors.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", domain.ErrRetrieval, err)
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RetrievalResult{
			Chunk:      hit.Chunk,
			Rank:       i + 1,
			Similarity: hit.Similarity,
		}
		logger.Debug("  #%d %.4f %s p.%d", i+1, hit.Similarity, hit.Chunk.Metadata.Title, hit.Chunk.Metadata.Page)
	}
	return results, nil
}

// Len returns the number of indexed chunks.
func (s *IndexService) Len() int {
	return s.vectors.Len()
}

// Open loads the persisted index matching identity, or builds one from
// chunks and persists it. It reports whether the index was loaded.
// A failure to persist is logged; the in-memory index stays usable.
func (s *IndexService) Open(ctx context.Context, identity domain.IndexIdentity, chunks []domain.Chunk) (bool, error) {
	if s.store == nil {
		return false, s.Build(ctx, chunks)
	}

	key := identity.Key()
	stored, ok, err := s.store.Load(ctx, key)
	if err != nil {
		logger.Warn("reading persisted index: %v", err)
	}
	if err == nil && ok {
		s.vectors.Reset()
		if err := s.vectors.Add(ctx, stored); err != nil {
			logger.Warn("persisted index is invalid, rebuilding: %v", err)
			s.vectors.Reset()
		} else {
			logger.Info("Loaded persisted index (%d chunks)", len(stored))
			return true, nil
		}
	}

	if err := s.Build(ctx, chunks); err != nil {
		return false, err
	}

	if err := s.store.Save(ctx, key, identity, s.vectors.Vectors()); err != nil {
		logger.Warn("persisting index: %v", err)
		return false, nil
	}
	if err := s.store.Prune(ctx, key); err != nil {
		logger.Warn("pruning old indexes: %v", err)
	}
	return false, nil
}
