package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

func page(text string) domain.PageRecord {
	return domain.PageRecord{
		Text: text,
		Metadata: domain.Provenance{
			Source: "/docs/dsm5.pdf",
			Title:  "DSM-5",
			Page:   3,
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		assert.Equal(t, DefaultChunkSize, p.ChunkSize())
		assert.Equal(t, DefaultChunkOverlap, p.Overlap())
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(200), WithOverlap(20))
		assert.Equal(t, 200, p.ChunkSize())
		assert.Equal(t, 20, p.Overlap())
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		assert.Equal(t, 25, p.Overlap())
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, p.ChunkSize())
		assert.Equal(t, DefaultChunkOverlap, p.Overlap())
	})
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestProcessor_Process_EmptyText(t *testing.T) {
	chunks, err := New().Process(context.Background(), page(""), nil)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcessor_Process_ShortText(t *testing.T) {
	text := "Les symptômes persistent depuis trois semaines."

	chunks, err := New().Process(context.Background(), page(text), nil)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Position)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestProcessor_Process_ExactSize(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(2))

	chunks := p.Chunk(page(strings.Repeat("a", 10)))

	assert.Len(t, chunks, 1)
}

func TestProcessor_Chunk_Windows(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(3))

	chunks := p.Chunk(page("abcdefghijklmnopqrstuvwxyz"))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxyz"}, texts)
}

func TestProcessor_Chunk_MetadataFidelity(t *testing.T) {
	record := page(strings.Repeat("dépression ", 200))

	chunks := New().Chunk(record)

	require.Greater(t, len(chunks), 1)
	ids := make(map[string]bool)
	for _, c := range chunks {
		assert.Equal(t, record.Metadata, c.Metadata)
		assert.False(t, ids[c.ID], "duplicate chunk id")
		ids[c.ID] = true
	}
}

func TestProcessor_Chunk_CoverageReconstructsText(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		text    string
	}{
		{"ascii", 50, 10, strings.Repeat("0123456789", 37)},
		{"accents", 40, 5, strings.Repeat("humeur dépressive, anhédonie; ", 20)},
		{"no overlap", 16, 0, strings.Repeat("xyz", 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			chunks := p.Chunk(page(tt.text))
			require.NotEmpty(t, chunks)

			var b strings.Builder
			b.WriteString(chunks[0].Text)
			for _, c := range chunks[1:] {
				b.WriteString(string([]rune(c.Text)[tt.overlap:]))
			}
			assert.Equal(t, tt.text, b.String())
		})
	}
}

func TestProcessor_Chunk_CountsRunes(t *testing.T) {
	p := New(WithChunkSize(5), WithOverlap(1))

	chunks := p.Chunk(page("éééééééééé"))

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), 5)
		assert.True(t, strings.HasPrefix(c.Text, "é"))
	}
	assert.Equal(t, "ééééé", chunks[0].Text)
}
