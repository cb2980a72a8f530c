package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// indexStore implements driven.IndexStore.
type indexStore struct {
	store *Store
}

var _ driven.IndexStore = (*indexStore)(nil)

// Load returns the vectors stored under key in insertion order.
func (s *indexStore) Load(ctx context.Context, key string) ([]domain.IndexedVector, bool, error) {
	var count, dims int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT vector_count, dimensions FROM indexes WHERE key = ?", key,
	).Scan(&count, &dims)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading index header: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_id, text, position, source, title, page, embedding
		FROM index_vectors WHERE index_key = ? ORDER BY ordinal
	`, key)
	if err != nil {
		return nil, false, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	vectors := make([]domain.IndexedVector, 0, count)
	for rows.Next() {
		var v domain.IndexedVector
		var blob []byte
		if err := rows.Scan(&v.Chunk.ID, &v.Chunk.Text, &v.Chunk.Position,
			&v.Chunk.Metadata.Source, &v.Chunk.Metadata.Title, &v.Chunk.Metadata.Page, &blob); err != nil {
			return nil, false, fmt.Errorf("scanning vector: %w", err)
		}
		v.Embedding = bytesToFloat32Slice(blob)
		if len(v.Embedding) != dims {
			return nil, false, fmt.Errorf("vector %d has %d dimensions, index has %d", len(vectors), len(v.Embedding), dims)
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating vectors: %w", err)
	}

	// A short read means the stored index is incomplete; treat it as absent.
	if len(vectors) != count {
		return nil, false, nil
	}

	return vectors, true, nil
}

// Save replaces the index stored under key in a single transaction.
func (s *indexStore) Save(
	ctx context.Context, key string, identity domain.IndexIdentity, vectors []domain.IndexedVector,
) error {
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0].Embedding)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_vectors WHERE index_key = ?", key); err != nil {
		return fmt.Errorf("clearing vectors: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO indexes (key, embedding_model, chunk_size, chunk_overlap, corpus_digest, dimensions, vector_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			dimensions = excluded.dimensions,
			vector_count = excluded.vector_count,
			created_at = excluded.created_at
	`, key, identity.EmbeddingModel, identity.ChunkSize, identity.ChunkOverlap, identity.CorpusDigest,
		dims, len(vectors), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving index header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_vectors (index_key, ordinal, chunk_id, text, position, source, title, page, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing vector insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range vectors {
		if len(v.Embedding) != dims {
			return fmt.Errorf("vector %d has %d dimensions, expected %d", i, len(v.Embedding), dims)
		}
		meta := v.Chunk.Metadata
		if _, err := stmt.ExecContext(ctx, key, i, v.Chunk.ID, v.Chunk.Text, v.Chunk.Position,
			meta.Source, meta.Title, meta.Page, float32SliceToBytes(v.Embedding)); err != nil {
			return fmt.Errorf("saving vector %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Prune deletes every stored index except keepKey.
func (s *indexStore) Prune(ctx context.Context, keepKey string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_vectors WHERE index_key != ?", keepKey); err != nil {
		return fmt.Errorf("pruning vectors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM indexes WHERE key != ?", keepKey); err != nil {
		return fmt.Errorf("pruning indexes: %w", err)
	}
	return tx.Commit()
}

// Close closes the underlying store.
func (s *indexStore) Close() error {
	return s.store.Close()
}
