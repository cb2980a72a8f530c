package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// --- Mock implementations ---

// vocabulary gives mockEmbeddingService one dimension per keyword.
var vocabulary = []string{"dépression", "sommeil", "anxiété", "bipolaire"}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings count vocabulary keywords, so keyword overlap drives similarity.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	batchErr   error
	failBatch  int // 1-based batch number that fails with batchErr
	dims       int
	wrongDims  bool
	batchCalls int
	embedCalls int
}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(vocabulary))
	for i, word := range vocabulary {
		v[i] = float32(strings.Count(lower, word))
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return keywordVector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil && (m.failBatch == 0 || m.failBatch == m.batchCalls) {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = keywordVector(t)
		if m.wrongDims && i == len(texts)-1 {
			out[i] = out[i][:1]
		}
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return m.dims }
func (m *mockEmbeddingService) ModelName() string          { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

func (m *mockEmbeddingService) calls() (batch, embed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchCalls, m.embedCalls
}

// mockLLMService implements driven.LLMService for testing.
// Each call pops the next entry of errs (nil means success).
type mockLLMService struct {
	mu       sync.Mutex
	answer   string
	errs     []error
	block    bool
	prompts  []string
	lastOpts driven.GenerateOptions
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.lastOpts = opts
	var err error
	if len(m.errs) > 0 {
		err = m.errs[0]
		m.errs = m.errs[1:]
	}
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return m.answer, nil
}

func (m *mockLLMService) ModelName() string          { return "mock-llm" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error               { return nil }

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// testTemplate keeps placeholders easy to locate in assertions.
const testTemplate = "CONTEXT:\n{context}\nHISTORY:\n{chat_history}\nQUESTION: {question}"

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.template == "" {
		return testTemplate, nil
	}
	return m.template, nil
}

func (m *mockPromptStore) Reload() {}

// mockIndexStore implements driven.IndexStore for testing.
type mockIndexStore struct {
	indexes map[string][]domain.IndexedVector
	saveErr error
	pruned  []string
}

func newMockIndexStore() *mockIndexStore {
	return &mockIndexStore{indexes: make(map[string][]domain.IndexedVector)}
}

func (m *mockIndexStore) Load(_ context.Context, key string) ([]domain.IndexedVector, bool, error) {
	v, ok := m.indexes[key]
	return v, ok, nil
}

func (m *mockIndexStore) Save(_ context.Context, key string, _ domain.IndexIdentity, vectors []domain.IndexedVector) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.indexes[key] = vectors
	return nil
}

func (m *mockIndexStore) Prune(_ context.Context, keepKey string) error {
	for key := range m.indexes {
		if key != keepKey {
			delete(m.indexes, key)
			m.pruned = append(m.pruned, key)
		}
	}
	return nil
}

func (m *mockIndexStore) Close() error { return nil }

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error { return m.embedErr }
func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error            { return m.llmErr }

var errBoom = errors.New("boom")

func chunk(id, text string, page int) domain.Chunk {
	return domain.Chunk{
		ID:       id,
		Text:     text,
		Metadata: domain.Provenance{Source: "/corpus/" + id + ".pdf", Title: "Doc " + id, Page: page},
	}
}
