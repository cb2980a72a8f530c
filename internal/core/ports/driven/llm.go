// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides text completion for answer generation.
//
// Implementations may include:
//   - OpenAI-compatible APIs (OpenAI, Groq)
//   - Anthropic (Claude)
//   - Ollama (local models)
//
// Adapters should wrap HTTP 429 with domain.ErrRateLimited, 5xx with
// domain.ErrUnavailable and deadline expiry with domain.ErrTimeout so the
// generator can decide whether a retry is safe.
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero uses the adapter default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
