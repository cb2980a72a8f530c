package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewLLMService(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	require.NoError(t, err)
	return s
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewLLMService_Defaults(t *testing.T) {
	s, err := NewLLMService(Config{APIKey: "k"})

	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, s.baseURL)
	assert.Equal(t, DefaultModel, s.ModelName())
}

func TestLLMService_Generate(t *testing.T) {
	var got messagesRequest
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"1. **Évaluation**"},{"type":"text","text":" ok"}],"stop_reason":"end_turn"}`))
	})

	answer, err := s.Generate(context.Background(), "question", driven.GenerateOptions{Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, "1. **Évaluation** ok", answer)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "question", got.Messages[0].Content)
}

func TestLLMService_Generate_NoText(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"max_tokens"}`))
	})

	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestLLMService_Generate_Overloaded(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	})

	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.True(t, domain.IsRetryable(err))
}

func TestLLMService_Generate_Unauthorized(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid x-api-key"}}`))
	})

	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})

	require.Error(t, err)
	assert.False(t, domain.IsRetryable(err))
}

func TestLLMService_Ping(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	assert.NoError(t, s.Ping(context.Background()))
}
