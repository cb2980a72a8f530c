package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyManifest       = "corpus.manifest"
	keyTopK           = "retrieval.top_k"
	keyMaxTurns       = "memory.max_turns"
	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.overlap"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedTimeout   = "embedding.timeout_secs"
	keyEmbedBatchSize = "embedding.batch_size"
	keyEmbedRate      = "embedding.requests_per_second"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMTemperature = "llm.temperature"
	keyLLMTimeout     = "llm.timeout_secs"
	keyLLMMaxAttempts = "llm.max_attempts"
	keyIndexPersist   = "index.persist"
	keyIndexPath      = "index.path"
)

const defaultOllamaURL = "http://localhost:11434"

// valueKind is the type a config key is stored as.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// settingKeys lists every key accepted by Set.
var settingKeys = map[string]valueKind{
	keyManifest:       kindString,
	keyTopK:           kindInt,
	keyMaxTurns:       kindInt,
	keyChunkSize:      kindInt,
	keyChunkOverlap:   kindInt,
	keyEmbedProvider:  kindString,
	keyEmbedModel:     kindString,
	keyEmbedBaseURL:   kindString,
	keyEmbedAPIKey:    kindString,
	keyEmbedTimeout:   kindInt,
	keyEmbedBatchSize: kindInt,
	keyEmbedRate:      kindFloat,
	keyLLMProvider:    kindString,
	keyLLMModel:       kindString,
	keyLLMBaseURL:     kindString,
	keyLLMAPIKey:      kindString,
	keyLLMTemperature: kindFloat,
	keyLLMTimeout:     kindInt,
	keyLLMMaxAttempts: kindInt,
	keyIndexPersist:   kindBool,
	keyIndexPath:      kindString,
}

// SettingKeys returns every configurable key, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService resolves application settings from defaults, the config
// store and the environment, in increasing order of precedence for API keys.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup, for tests.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Manifest: s.getString(keyManifest, defaults.Corpus.Manifest),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getNonNegativeInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Timeout:           s.getSeconds(keyEmbedTimeout, defaults.Embedding.Timeout),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRate),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			Timeout:     s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
			MaxAttempts: s.getInt(keyLLMMaxAttempts, defaults.LLM.MaxAttempts),
		},
		Index: domain.IndexSettings{
			Persist: s.getBool(keyIndexPersist, defaults.Index.Persist),
			Path:    s.configStore.GetString(keyIndexPath),
		},
		TopK:     s.getInt(keyTopK, defaults.TopK),
		MaxTurns: s.configStore.GetInt(keyMaxTurns),
	}

	// Environment keys win over the config file
	if key := s.envKey(settings.Embedding.Provider); key != "" {
		settings.Embedding.APIKey = key
	}
	if key := s.envKey(settings.LLM.Provider); key != "" {
		settings.LLM.APIKey = key
	}

	return settings, nil
}

// Set stores one value by dotted key, converting it to the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	default:
		typed = value
	}

	if key == keyEmbedProvider || key == keyLLMProvider {
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("%w: invalid provider: %s", domain.ErrInvalidInput, value)
		}
		if key == keyEmbedProvider && !provider.SupportsEmbeddings() {
			return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
		}
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	baseURL := ""
	if provider.IsLocal() {
		baseURL = defaultOllamaURL
	}

	return s.saveProvider(keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		provider, model, baseURL, apiKey)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	baseURL := ""
	if provider.IsLocal() {
		baseURL = defaultOllamaURL
	}

	return s.saveProvider(keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
		provider, model, baseURL, apiKey)
}

// saveProvider writes a provider block. An empty apiKey leaves any stored key
// in place so an environment variable can supply it.
func (s *SettingsService) saveProvider(
	providerKey, modelKey, baseURLKey, apiKeyKey string,
	provider domain.AIProvider, model, baseURL, apiKey string,
) error {
	if err := s.configStore.Set(providerKey, provider.String()); err != nil {
		return fmt.Errorf("save %s: %w", providerKey, err)
	}
	if err := s.configStore.Set(modelKey, model); err != nil {
		return fmt.Errorf("save %s: %w", modelKey, err)
	}
	if err := s.configStore.Set(baseURLKey, baseURL); err != nil {
		return fmt.Errorf("save %s: %w", baseURLKey, err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(apiKeyKey, apiKey); err != nil {
			return fmt.Errorf("save %s: %w", apiKeyKey, err)
		}
	}
	return nil
}

// Validate checks that current settings allow the pipeline to start.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ConfigPath returns the path of the backing config file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	name := provider.APIKeyEnv()
	if name == "" {
		return ""
	}
	val, _ := s.lookupEnv(name)
	return strings.TrimSpace(val)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetFloat(key)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs * float64(time.Second))
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
