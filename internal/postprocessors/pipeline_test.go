package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	calls  int
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ domain.PageRecord, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func testPage() domain.PageRecord {
	return domain.PageRecord{
		Text:     "Le patient décrit une tristesse persistante.",
		Metadata: domain.Provenance{Source: "a.txt", Title: "a", Page: 1},
	}
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	assert.Equal(t, 1, p.Len())
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), testPage())

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestPipeline_Process_MultipleProcessors(t *testing.T) {
	first := &mockProcessor{name: "first", chunks: []domain.Chunk{{ID: "1", Text: "a"}}}
	second := &mockProcessor{name: "second"}

	chunks, err := NewPipeline(first, second).Process(context.Background(), testPage())

	require.NoError(t, err)
	assert.Equal(t, []domain.Chunk{{ID: "1", Text: "a"}}, chunks)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	failing := &mockProcessor{name: "failing", err: errors.New("boom")}
	after := &mockProcessor{name: "after"}

	_, err := NewPipeline(failing, after).Process(context.Background(), testPage())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "processor failing")
	assert.Equal(t, 0, after.calls)
}

func TestPipeline_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	proc := &mockProcessor{name: "p"}

	_, err := NewPipeline(proc).Process(ctx, testPage())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, proc.calls)
}

func TestDefaultPipeline_ChunksPage(t *testing.T) {
	p, err := DefaultPipeline(domain.ChunkingSettings{Size: 10, Overlap: 2})
	require.NoError(t, err)

	record := testPage()
	chunks, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "Le patient", chunks[0].Text)
	for i, c := range chunks {
		assert.Equal(t, i, c.Position)
		assert.Equal(t, record.Metadata, c.Metadata)
	}
}
