package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

type stubEmbedder struct {
	calls atomic.Int32
	err   error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1}, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return 1 }
func (s *stubEmbedder) ModelName() string            { return "stub" }
func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { return nil }

func TestWrap_DisabledReturnsInner(t *testing.T) {
	inner := &stubEmbedder{}

	assert.Same(t, inner, Wrap(inner, Config{}))
	assert.IsType(t, &EmbeddingService{}, Wrap(inner, Config{RequestsPerSecond: 5}))
}

func TestEmbeddingService_Delegates(t *testing.T) {
	inner := &stubEmbedder{}
	s := New(inner, Config{RequestsPerSecond: 1000, BurstSize: 10})

	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)

	_, err = s.Embed(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, "stub", s.ModelName())
	assert.Equal(t, 1, s.Dimensions())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestEmbeddingService_Throttles(t *testing.T) {
	s := New(&stubEmbedder{}, Config{RequestsPerSecond: 20, BurstSize: 1})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := s.Embed(context.Background(), "x")
		require.NoError(t, err)
	}

	// Burst of 1 at 20/s: the second and third calls wait ~50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestEmbeddingService_CancelledWhileWaiting(t *testing.T) {
	s := New(&stubEmbedder{}, Config{RequestsPerSecond: 0.1, BurstSize: 1})
	_, err := s.Embed(context.Background(), "x")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.Embed(ctx, "x")

	assert.Error(t, err)
}

func TestEmbeddingService_CooldownAfterRateLimit(t *testing.T) {
	inner := &stubEmbedder{err: fmt.Errorf("openai: %w", domain.ErrRateLimited)}
	s := New(inner, Config{RequestsPerSecond: 1000, BurstSize: 10, Cooldown: time.Hour})

	_, err := s.Embed(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrRateLimited)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.Embed(ctx, "x")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), inner.calls.Load())
}
