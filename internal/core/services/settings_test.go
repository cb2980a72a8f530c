package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clinirag/internal/core/domain"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(noEnv)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("embedding.model", "nomic-embed-text")
	_ = store.Set("embedding.timeout_secs", int64(10))
	_ = store.Set("llm.temperature", 0.0)
	_ = store.Set("llm.max_attempts", int64(3))
	_ = store.Set("chunking.chunk_size", int64(400))
	_ = store.Set("chunking.overlap", int64(0))
	_ = store.Set("retrieval.top_k", int64(3))
	_ = store.Set("index.persist", false)
	_ = store.Set("memory.max_turns", int64(20))

	settings, err := NewSettingsService(store, nil).WithEnv(noEnv).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, 10*time.Second, settings.Embedding.Timeout)
	assert.Equal(t, 0.0, settings.LLM.Temperature)
	assert.Equal(t, 3, settings.LLM.MaxAttempts)
	assert.Equal(t, domain.ChunkingSettings{Size: 400, Overlap: 0}, settings.Chunking)
	assert.Equal(t, 3, settings.TopK)
	assert.False(t, settings.Index.Persist)
	assert.Equal(t, 20, settings.MaxTurns)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "invalid_provider")

	settings, err := NewSettingsService(store, nil).WithEnv(noEnv).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGroq, settings.LLM.Provider)
}

func TestSettingsService_Get_EnvironmentKeysOverrideConfig(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.api_key", "from-config")
	_ = store.Set("embedding.api_key", "embed-config")
	env := envOf(map[string]string{"GROQ_API_KEY": " gsk-env "})

	settings, err := NewSettingsService(store, nil).WithEnv(env).Get()

	require.NoError(t, err)
	assert.Equal(t, "gsk-env", settings.LLM.APIKey)
	assert.Equal(t, "embed-config", settings.Embedding.APIKey)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  any
	}{
		{"retrieval.top_k", "7", 7},
		{"llm.temperature", "0.7", 0.7},
		{"index.persist", "false", false},
		{"llm.model", "llama-3.1-8b-instant", "llama-3.1-8b-instant"},
		{"llm.provider", "anthropic", "anthropic"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			require.NoError(t, NewSettingsService(store, nil).Set(tt.key, tt.value))

			val, ok := store.Get(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.want, val)
		})
	}
}

func TestSettingsService_Set_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.ErrorIs(t, service.Set("unknown.key", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("retrieval.top_k", "five"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("llm.temperature", "hot"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("index.persist", "maybe"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("llm.provider", "nope"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("embedding.provider", "groq"), domain.ErrInvalidInput)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil).WithEnv(noEnv)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.2", settings.LLM.Model)
	assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "gpt-4o", "sk-test"))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "", settings.LLM.BaseURL)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)

	assert.ErrorIs(t, service.SetLLMProvider("bogus", "", ""), domain.ErrInvalidInput)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(noEnv)

	assert.ErrorIs(t, service.SetEmbeddingProvider(domain.AIProviderGroq, "", "k"), domain.ErrInvalidInput)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("missing groq key", func(t *testing.T) {
		env := envOf(map[string]string{"OPENAI_API_KEY": "sk"})
		err := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(env).Validate()

		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "GROQ_API_KEY")
	})

	t.Run("all keys present", func(t *testing.T) {
		env := envOf(map[string]string{"OPENAI_API_KEY": "sk", "GROQ_API_KEY": "gsk"})
		err := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(env).Validate()

		assert.NoError(t, err)
	})

	t.Run("fully local", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(noEnv)
		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
		require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

		assert.NoError(t, service.Validate())
	})
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).ValidateLLMConfig())

	validator := &mockAIValidator{embedErr: errBoom}
	service := NewSettingsService(memory.NewConfigStore(), validator).WithEnv(noEnv)

	assert.ErrorIs(t, service.ValidateEmbeddingConfig(), errBoom)
	assert.NoError(t, service.ValidateLLMConfig())
}

func TestSettingsService_ConfigPath(t *testing.T) {
	assert.Equal(t, ":memory:", NewSettingsService(memory.NewConfigStore(), nil).ConfigPath())
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()

	assert.Contains(t, keys, "llm.model")
	assert.Contains(t, keys, "retrieval.top_k")
	assert.IsIncreasing(t, keys)
}
