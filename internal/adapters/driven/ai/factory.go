// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/clinirag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/clinirag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/clinirag/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/clinirag/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/clinirag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/clinirag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// It backs 'clinirag settings embedding'.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return ping(context.Background(), svc.Ping)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// It backs 'clinirag settings llm'.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return ping(context.Background(), svc.Ping)
}

// CreateEmbeddingService creates the embedding service selected by settings,
// rate limited when settings.RequestsPerSecond is positive.
// Missing or incomplete settings wrap domain.ErrConfiguration.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding settings missing", domain.ErrConfiguration)
	}
	if !settings.Provider.SupportsEmbeddings() {
		return nil, fmt.Errorf("%w: %s does not support embeddings, use ollama or openai",
			domain.ErrConfiguration, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %s is not configured (set %s or embedding.api_key)",
			domain.ErrConfiguration, settings.Provider, settings.Provider.APIKeyEnv())
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaEmbedding(settings)
	case domain.AIProviderOpenAI:
		svc, err = createOpenAIEmbedding(settings)
	default:
		err = fmt.Errorf("%w: unsupported embedding provider: %s", domain.ErrConfiguration, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.Wrap(svc, ratelimit.Config{RequestsPerSecond: settings.RequestsPerSecond}), nil
}

// CreateLLMService creates the LLM service selected by settings.
// Missing or incomplete settings wrap domain.ErrConfiguration.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: llm settings missing", domain.ErrConfiguration)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: llm provider %q is not configured", domain.ErrConfiguration, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGroq:
		return openaillm.NewGroqService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrConfiguration, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createOllamaLLM creates an Ollama LLM service.
// Per-attempt deadlines come from the generator; the client timeout is a backstop.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
