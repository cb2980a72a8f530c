package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq cloud API, reached through its OpenAI-compatible endpoint.
	AIProviderGroq AIProvider = "groq"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if the provider offers an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the environment variable holding this provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderGroq:
		return "GROQ_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Timeout bounds each embedding request.
	Timeout time.Duration

	// BatchSize is the number of chunk texts sent per request while indexing.
	BatchSize int

	// RequestsPerSecond limits embedding requests while indexing. Zero disables limiting.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() || e.Model == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Groq/Anthropic).
	APIKey string

	// Temperature is the sampling temperature.
	Temperature float64

	// Timeout bounds each completion attempt.
	Timeout time.Duration

	// MaxAttempts is the total number of attempts for retryable failures.
	// One means no retry.
	MaxAttempts int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Model == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how page text is windowed.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// CorpusSettings locates the documents to ingest.
type CorpusSettings struct {
	// Manifest is the path of the YAML document list.
	Manifest string

	// Documents are explicit documents, used instead of the manifest when set.
	Documents []SourceDocument
}

// IndexSettings controls the persisted embedding index.
type IndexSettings struct {
	// Persist stores the index on disk and reloads it when unchanged.
	Persist bool

	// Path is the directory holding the SQLite database (default: ~/.clinirag/data).
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus    CorpusSettings
	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings

	// TopK is the number of chunks retrieved per question.
	TopK int

	// MaxTurns caps the turns kept per conversation. Zero means unbounded.
	MaxTurns int
}

// Default values.
const (
	DefaultChunkSize      = 500
	DefaultChunkOverlap   = 50
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultLLMModel       = "llama-3.3-70b-versatile"
	DefaultManifest       = "documents.yaml"
	DefaultBatchSize      = 32
)

// DefaultAppSettings returns settings with sensible defaults.
// Credentials are never defaulted; they come from config or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{
			Manifest: DefaultManifest,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOpenAI,
			Model:     DefaultEmbeddingModel,
			Timeout:   30 * time.Second,
			BatchSize: DefaultBatchSize,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGroq,
			Model:       DefaultLLMModel,
			Temperature: 0.2,
			Timeout:     60 * time.Second,
			MaxAttempts: 1,
		},
		Index: IndexSettings{
			Persist: true,
		},
		TopK: DefaultTopK,
	}
}

// Validate checks the settings required before the pipeline can start.
// Every failure wraps ErrConfiguration.
func (s AppSettings) Validate() error {
	if !s.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: embedding provider %q does not support embeddings", ErrConfiguration, s.Embedding.Provider)
	}
	if s.Embedding.Model == "" {
		return fmt.Errorf("%w: embedding model is not set", ErrConfiguration)
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfiguration, s.Embedding.Provider.APIKeyEnv())
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", ErrConfiguration, s.LLM.Provider)
	}
	if s.LLM.Model == "" {
		return fmt.Errorf("%w: llm model is not set", ErrConfiguration)
	}
	if s.LLM.Provider.RequiresAPIKey() && s.LLM.APIKey == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfiguration, s.LLM.Provider.APIKeyEnv())
	}
	if s.Chunking.Size <= 0 || s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrConfiguration, s.Chunking.Overlap, s.Chunking.Size)
	}
	return nil
}

// AllLLMProviders returns providers that support text completion.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderGroq, AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderOllama}
}

// DefaultEmbeddingModels returns the default embedding model per provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: DefaultEmbeddingModel,
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns the default completion model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:      DefaultLLMModel,
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderOllama:    "llama3.2",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}
