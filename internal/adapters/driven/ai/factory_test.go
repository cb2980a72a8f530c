package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/clinirag/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  bool
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  true,
		},
		{
			name:     "unconfigured settings",
			settings: &domain.EmbeddingSettings{},
			wantErr:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			wantErr: true,
		},
		{
			name: "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "x",
			},
			wantErr: true,
		},
		{
			name: "groq has no embeddings",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderGroq,
				APIKey:   "test-key",
				Model:    "x",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.settings.Model, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateEmbeddingService_RateLimited(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider:          domain.AIProviderOllama,
		Model:             "nomic-embed-text",
		RequestsPerSecond: 2,
	})

	require.NoError(t, err)
	assert.IsType(t, &ratelimit.EmbeddingService{}, svc)
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantErr  bool
	}{
		{name: "nil settings", settings: nil, wantErr: true},
		{name: "unconfigured settings", settings: &domain.LLMSettings{}, wantErr: true},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.2",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "groq provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderGroq,
				APIKey:   "gsk",
				Model:    "llama-3.3-70b-versatile",
			},
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-haiku-latest",
			},
		},
		{
			name: "groq without key",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderGroq,
				Model:    "llama-3.3-70b-versatile",
			},
			wantErr: true,
		},
		{
			name:     "unknown provider",
			settings: &domain.LLMSettings{Provider: "unknown", APIKey: "k", Model: "m"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.settings.Model, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestValidateLLMConfig_Reachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	err := ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "llama3.2",
	})

	assert.NoError(t, err)
}

func TestValidateEmbeddingConfig_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  url,
		Model:    "nomic-embed-text",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestValidateEmbeddingConfig_MissingKey(t *testing.T) {
	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
	})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
