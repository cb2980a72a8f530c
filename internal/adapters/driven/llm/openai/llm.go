// Package openai provides an LLM service adapter for OpenAI-compatible
// chat completion APIs. Groq is served through the same adapter.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/custodia-labs/clinirag/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = openaicompat.OpenAIBaseURL
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// Provider labels errors (default: openai).
	Provider string

	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Groq or other compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using an OpenAI-compatible API.
type LLMService struct {
	client   openai.Client
	provider string
	model    string
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Provider == "" {
		cfg.Provider = domain.AIProviderOpenAI.String()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s API key is required", domain.ErrConfiguration, cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: openaicompat.NewClient(openaicompat.ClientConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}),
		provider: cfg.Provider,
		model:    cfg.Model,
	}, nil
}

// NewGroqService creates a service for Groq's OpenAI-compatible endpoint.
func NewGroqService(cfg LLMConfig) (*LLMService, error) {
	cfg.Provider = domain.AIProviderGroq.String()
	if cfg.BaseURL == "" {
		cfg.BaseURL = openaicompat.GroqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultLLMModel
	}
	return NewLLMService(cfg)
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", openaicompat.Classify(s.provider, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", s.provider)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by listing models.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx); err != nil {
		return openaicompat.Classify(s.provider, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
