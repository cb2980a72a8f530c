package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/logger"
)

func quietLogger(t *testing.T) {
	t.Helper()
	logger.SetOutput(io.Discard)
	logger.ResetCounts()
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.ResetCounts()
	})
}

func TestCorpusService_SkipsMissingDocument(t *testing.T) {
	quietLogger(t)
	ctx := context.Background()
	tp := newTestPipeline(t)
	present := writeDoc(t, "present.txt", "dépression")
	missing := domain.SourceDocument{Path: filepath.Join(t.TempDir(), "absent.pdf"), Title: "Absent"}

	report, err := tp.Prepare(ctx, []domain.SourceDocument{missing, present})

	require.NoError(t, err)
	assert.Equal(t, []string{missing.Path}, report.Skipped)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, 1, logger.Count("WARN"))
	assert.Equal(t, 1, tp.Index.Len())
}

func TestCorpusService_SkipsMissingTextDocument(t *testing.T) {
	quietLogger(t)
	tp := newTestPipeline(t)
	missing := domain.SourceDocument{Path: filepath.Join(t.TempDir(), "absent.txt")}

	report, err := tp.Prepare(context.Background(), []domain.SourceDocument{missing})

	require.NoError(t, err)
	assert.Len(t, report.Skipped, 1)
	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, 0, tp.Index.Len())
	assert.Equal(t, 1, logger.Count("WARN"))
}

func TestCorpusService_PagesAndChunks(t *testing.T) {
	quietLogger(t)
	tp := newTestPipeline(t)
	long := strings.Repeat("sommeil ", 100) // 800 characters before trimming
	doc := writeDoc(t, "guide.txt", "Page un.\fPage   deux\n\n\f"+long)

	chunks, report, err := tp.Corpus.Ingest(context.Background(), []domain.SourceDocument{doc})

	require.NoError(t, err)
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, len(chunks), report.Chunks)
	require.Len(t, chunks, 4)

	assert.Equal(t, "Page un.", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].Metadata.Page)
	assert.Equal(t, "Page deux", chunks[1].Text)
	assert.Equal(t, 2, chunks[1].Metadata.Page)
	for _, c := range chunks[2:] {
		assert.Equal(t, 3, c.Metadata.Page)
		assert.Equal(t, "guide", c.Metadata.Title)
		assert.LessOrEqual(t, len([]rune(c.Text)), domain.DefaultChunkSize)
	}
}

func TestCorpusService_CancelledContext(t *testing.T) {
	tp := newTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tp.Prepare(ctx, []domain.SourceDocument{writeDoc(t, "a.txt", "x")})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCorpusService_IndexBuildFailure(t *testing.T) {
	quietLogger(t)
	tp := newTestPipeline(t)
	tp.embedder.batchErr = errBoom

	_, err := tp.Prepare(context.Background(), []domain.SourceDocument{writeDoc(t, "a.txt", "x")})

	assert.ErrorIs(t, err, domain.ErrIndexBuild)
}

func TestCorpusDigest(t *testing.T) {
	doc := writeDoc(t, "a.txt", "one")
	before := CorpusDigest([]domain.SourceDocument{doc})

	assert.Equal(t, before, CorpusDigest([]domain.SourceDocument{doc}))

	retitled := doc
	retitled.Title = "other"
	assert.NotEqual(t, before, CorpusDigest([]domain.SourceDocument{retitled}))

	require.NoError(t, os.WriteFile(doc.Path, []byte("one two"), 0600))
	assert.NotEqual(t, before, CorpusDigest([]domain.SourceDocument{doc}))

	missing := domain.SourceDocument{Path: filepath.Join(t.TempDir(), "gone.txt")}
	assert.NotEqual(t,
		CorpusDigest([]domain.SourceDocument{doc}),
		CorpusDigest([]domain.SourceDocument{doc, missing}))
}
