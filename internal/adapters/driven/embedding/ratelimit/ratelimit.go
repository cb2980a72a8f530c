// Package ratelimit throttles calls to an embedding service.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultCooldown is how long calls pause after the provider reports a rate limit.
const DefaultCooldown = 2 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size (default: 1).
	BurstSize int
	// Cooldown follows a rate-limited response (default: 2s).
	Cooldown time.Duration
}

// EmbeddingService wraps another EmbeddingService with a token bucket.
// Every Embed and EmbedBatch call takes one token.
type EmbeddingService struct {
	inner    driven.EmbeddingService
	limiter  *rate.Limiter
	cooldown time.Duration

	mu      sync.Mutex
	retryAt time.Time
}

// Wrap returns inner unchanged when RequestsPerSecond is not positive.
func Wrap(inner driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return inner
	}
	return New(inner, cfg)
}

// New creates a rate limited embedding service.
func New(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	return &EmbeddingService{
		inner:    inner,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		cooldown: cfg.Cooldown,
	}
}

// Embed waits for a token, then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	vec, err := s.inner.Embed(ctx, text)
	s.record(err)
	return vec, err
}

// EmbedBatch waits for a token, then embeds texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	vecs, err := s.inner.EmbedBatch(ctx, texts)
	s.record(err)
	return vecs, err
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

func (s *EmbeddingService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return s.limiter.Wait(ctx)
}

func (s *EmbeddingService) record(err error) {
	if err == nil || !errors.Is(err, domain.ErrRateLimited) {
		return
	}
	s.mu.Lock()
	s.retryAt = time.Now().Add(s.cooldown)
	s.mu.Unlock()
}
