package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Wrapping(t *testing.T) {
	assert.ErrorIs(t, ErrDocumentMissing, ErrIngestion)
	assert.ErrorIs(t, ErrDocumentUnreadable, ErrIngestion)
	assert.False(t, errors.Is(ErrDocumentMissing, ErrDocumentUnreadable))
	assert.Equal(t, "ingestion failed: document missing", ErrDocumentMissing.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"timeout", fmt.Errorf("llm: %w", ErrTimeout), true},
		{"rate limited", fmt.Errorf("%w: %w", ErrGeneration, ErrRateLimited), true},
		{"unavailable", ErrUnavailable, true},
		{"validation", ErrValidation, false},
		{"generic", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestNewSourceRef(t *testing.T) {
	ref := NewSourceRef(Provenance{Source: "a.pdf", Title: "A", Page: 3})
	assert.Equal(t, SourceRef{Source: "a.pdf", Title: "A", Page: "3"}, ref)

	ref = NewSourceRef(Provenance{})
	assert.Equal(t, SourceRef{Source: UnknownSource, Title: UnknownSource, Page: UnknownSource}, ref)
}

func TestParseAnswerSections(t *testing.T) {
	answer := "Intro\n1. **Évaluation** :\n - humeur basse\n2. **Hypothèse Diagnostique** :\n - dépression légère\n" +
		"3. **Recommandations** :\n - consulter\n4. **Disclaimer** : *Ceci n'est pas un avis médical.*"

	sections := ParseAnswerSections(answer)

	assert.Equal(t, "- humeur basse", sections.Evaluation)
	assert.Equal(t, "- dépression légère", sections.Diagnosis)
	assert.Equal(t, "- consulter", sections.Recommendations)
	assert.Equal(t, "*Ceci n'est pas un avis médical.*", sections.Disclaimer)
}

func TestParseAnswerSections_NoHeadings(t *testing.T) {
	assert.Equal(t, AnswerSections{}, ParseAnswerSections("free text answer"))
}

func TestIndexIdentity_Key(t *testing.T) {
	a := IndexIdentity{EmbeddingModel: "m", ChunkSize: 500, ChunkOverlap: 50, CorpusDigest: "x"}
	b := a

	assert.Equal(t, a.Key(), b.Key())
	assert.Len(t, a.Key(), 64)

	b.ChunkOverlap = 60
	assert.NotEqual(t, a.Key(), b.Key())

	c := a
	c.CorpusDigest = "y"
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestSourceDocument_Ext(t *testing.T) {
	assert.Equal(t, ".pdf", SourceDocument{Path: "/docs/Guide.PDF"}.Ext())
	assert.Equal(t, "", SourceDocument{Path: "README"}.Ext())
}

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderGroq.IsValid())
	assert.False(t, AIProvider("mistral").IsValid())
	assert.True(t, AIProviderGroq.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderGroq.SupportsEmbeddings())
	assert.True(t, AIProviderOllama.SupportsEmbeddings())
	assert.Equal(t, "GROQ_API_KEY", AIProviderGroq.APIKeyEnv())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func validSettings() AppSettings {
	s := DefaultAppSettings()
	s.Embedding.APIKey = "sk-embed"
	s.LLM.APIKey = "gsk-llm"
	return s
}

func TestAppSettings_Validate(t *testing.T) {
	require.NoError(t, validSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"missing llm key", func(s *AppSettings) { s.LLM.APIKey = "" }},
		{"missing embedding key", func(s *AppSettings) { s.Embedding.APIKey = "" }},
		{"missing llm model", func(s *AppSettings) { s.LLM.Model = "" }},
		{"missing embedding model", func(s *AppSettings) { s.Embedding.Model = "" }},
		{"invalid llm provider", func(s *AppSettings) { s.LLM.Provider = "bogus" }},
		{"embedding provider without embeddings", func(s *AppSettings) { s.Embedding.Provider = AIProviderGroq }},
		{"overlap not below size", func(s *AppSettings) { s.Chunking.Overlap = s.Chunking.Size }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrConfiguration)
		})
	}
}

func TestAppSettings_ValidateLocalProviders(t *testing.T) {
	s := DefaultAppSettings()
	s.Embedding.Provider = AIProviderOllama
	s.LLM.Provider = AIProviderOllama

	assert.NoError(t, s.Validate())
}

func TestSettings_IsConfigured(t *testing.T) {
	s := validSettings()
	assert.True(t, s.Embedding.IsConfigured())
	assert.True(t, s.LLM.IsConfigured())

	s.LLM.APIKey = ""
	assert.False(t, s.LLM.IsConfigured())
}
