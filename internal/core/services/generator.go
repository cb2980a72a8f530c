package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/logger"
)

// Retry backoff bounds.
const (
	defaultBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// AnswerGenerator sends assembled prompts to the completion service.
type AnswerGenerator struct {
	llm         driven.LLMService
	timeout     time.Duration
	maxAttempts int
	temperature float64
	backoff     time.Duration
}

// NewAnswerGenerator creates a generator using the LLM settings for
// timeout, attempts and temperature.
func NewAnswerGenerator(llm driven.LLMService, settings domain.LLMSettings) *AnswerGenerator {
	attempts := settings.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &AnswerGenerator{
		llm:         llm,
		timeout:     settings.Timeout,
		maxAttempts: attempts,
		temperature: settings.Temperature,
		backoff:     defaultBackoff,
	}
}

// Generate returns the model's raw answer text. Each attempt is bounded by
// the configured timeout; only retryable failures are retried.
func (g *AnswerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	opts := driven.GenerateOptions{Temperature: g.temperature}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		answer, err := g.attempt(ctx, prompt, opts)
		if err == nil {
			logger.Debug("Generated %d characters with %s", len(answer), g.llm.ModelName())
			return answer, nil
		}
		lastErr = err

		if ctx.Err() != nil || !domain.IsRetryable(err) || attempt == g.maxAttempts {
			break
		}

		wait := g.backoffFor(attempt)
		logger.Warn("generation attempt %d/%d failed, retrying in %s: %v", attempt, g.maxAttempts, wait, err)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", domain.ErrGeneration, ctx.Err())
		case <-time.After(wait):
		}
	}

	return "", fmt.Errorf("%w: %w", domain.ErrGeneration, lastErr)
}

func (g *AnswerGenerator) attempt(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	attemptCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	answer, err := g.llm.Generate(attemptCtx, prompt, opts)
	if err == nil {
		return answer, nil
	}

	// Only our own deadline counts as a timeout; a cancelled caller does not.
	if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		return "", fmt.Errorf("%w after %s: %w", domain.ErrTimeout, g.timeout, err)
	}
	return "", err
}

func (g *AnswerGenerator) backoffFor(attempt int) time.Duration {
	if attempt > 16 {
		return maxBackoff
	}
	wait := g.backoff << (attempt - 1)
	if wait <= 0 || wait > maxBackoff {
		wait = maxBackoff
	}
	return wait
}
