package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
	"github.com/custodia-labs/clinirag/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService loads documents, chunks their pages and prepares the index.
type CorpusService struct {
	loaders  driven.LoaderRegistry
	pipeline driven.PostProcessorPipeline
	index    *IndexService
	model    string
	chunking domain.ChunkingSettings
}

// NewCorpusService creates a new corpus service. model and chunking form
// part of the persisted index identity.
func NewCorpusService(
	loaders driven.LoaderRegistry,
	pipeline driven.PostProcessorPipeline,
	index *IndexService,
	model string,
	chunking domain.ChunkingSettings,
) *CorpusService {
	return &CorpusService{
		loaders:  loaders,
		pipeline: pipeline,
		index:    index,
		model:    model,
		chunking: chunking,
	}
}

// Prepare ingests docs in order and opens the index over the resulting chunks.
// Documents that fail ingestion are logged and listed in the report.
func (s *CorpusService) Prepare(ctx context.Context, docs []domain.SourceDocument) (*domain.IngestReport, error) {
	logger.Section("Corpus Ingestion")

	chunks, report, err := s.Ingest(ctx, docs)
	if err != nil {
		return nil, err
	}

	identity := domain.IndexIdentity{
		EmbeddingModel: s.model,
		ChunkSize:      s.chunking.Size,
		ChunkOverlap:   s.chunking.Overlap,
		CorpusDigest:   CorpusDigest(docs),
	}

	loaded, err := s.index.Open(ctx, identity, chunks)
	if err != nil {
		return nil, err
	}
	report.Loaded = loaded

	logger.Info("Corpus ready: %d documents, %d pages, %d chunks, %d skipped",
		report.Documents, report.Pages, report.Chunks, len(report.Skipped))
	return report, nil
}

// Ingest loads and chunks docs without touching the index.
func (s *CorpusService) Ingest(ctx context.Context, docs []domain.SourceDocument) ([]domain.Chunk, *domain.IngestReport, error) {
	report := &domain.IngestReport{}
	var chunks []domain.Chunk

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		pages, err := s.loaders.Load(ctx, doc)
		if err != nil {
			if !errors.Is(err, domain.ErrIngestion) {
				return nil, nil, fmt.Errorf("load %s: %w", doc.Path, err)
			}
			logger.Warn("skipping %s: %v", doc.Path, err)
			report.Skipped = append(report.Skipped, doc.Path)
			continue
		}

		docChunks := 0
		for _, page := range pages {
			pageChunks, err := s.pipeline.Process(ctx, page)
			if err != nil {
				return nil, nil, fmt.Errorf("chunk %s page %d: %w", doc.Path, page.Metadata.Page, err)
			}
			chunks = append(chunks, pageChunks...)
			docChunks += len(pageChunks)
		}

		logger.Debug("Loaded %s: %d pages, %d chunks", doc.Path, len(pages), docChunks)
		report.Documents++
		report.Pages += len(pages)
	}

	report.Chunks = len(chunks)
	return chunks, report, nil
}

// CorpusDigest fingerprints the document list: order, path, title, and the
// size and modification time of each file. Missing files are included as such.
func CorpusDigest(docs []domain.SourceDocument) string {
	h := sha256.New()
	for _, doc := range docs {
		fmt.Fprintf(h, "%s\x00%s\x00", doc.Path, doc.Title)
		if info, err := os.Stat(doc.Path); err == nil {
			fmt.Fprintf(h, "%d\x00%d\n", info.Size(), info.ModTime().UnixNano())
		} else {
			fmt.Fprint(h, "missing\n")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
