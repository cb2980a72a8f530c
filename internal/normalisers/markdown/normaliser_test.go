package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".md", ".markdown"}, New().Extensions())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "troubles.md")
	content := "# Troubles dépressifs\n\nLa **dépression** se traite.\n\n- voir un [médecin](https://example.org)\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	pages, err := New().Load(context.Background(), domain.SourceDocument{Path: path})

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Troubles dépressifs La dépression se traite. voir un médecin", pages[0].Text)
	assert.Equal(t, "Troubles dépressifs", pages[0].Metadata.Title)
	assert.Equal(t, 1, pages[0].Metadata.Page)
}

func TestLoad_ExplicitTitleWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\ntext"), 0600))

	pages, err := New().Load(context.Background(), domain.SourceDocument{Path: path, Title: "Configured"})

	require.NoError(t, err)
	assert.Equal(t, "Configured", pages[0].Metadata.Title)
}

func TestLoad_Missing(t *testing.T) {
	_, err := New().Load(context.Background(), domain.SourceDocument{Path: "/does/not/exist.md"})

	assert.ErrorIs(t, err, domain.ErrDocumentMissing)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"heading", "## Section", "Section"},
		{"bold", "**gras** et *italique*", "gras et italique"},
		{"inline code keeps text", "use `PHQ-9`", "use PHQ-9"},
		{"code block removed", "before\n```\ncode\n```\nafter", "before\n\nafter"},
		{"image removed", "![alt](img.png)text", "text"},
		{"numbered list", "1. premier\n2. second", "premier\nsecond"},
		{"blockquote", "> cité", "cité"},
		{"rule", "a\n---\nb", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripMarkdown(tt.input))
		})
	}
}
