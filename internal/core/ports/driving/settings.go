package driving

import "github.com/custodia-labs/clinirag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves current settings from defaults, the config file and the environment.
	Get() (*domain.AppSettings, error)

	// Set stores a single configuration value by dotted key, e.g. "llm.model".
	Set(key, value string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that current settings allow the pipeline to start.
	Validate() error

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error

	// ConfigPath returns the path of the backing config file.
	ConfigPath() string
}
