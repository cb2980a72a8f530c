package driving

import (
	"context"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// CorpusService loads the configured documents and prepares the index.
type CorpusService interface {
	// Prepare ingests the documents, then loads a matching persisted index
	// or builds and persists a new one. Missing documents are skipped and
	// reported, never fatal.
	Prepare(ctx context.Context, docs []domain.SourceDocument) (*domain.IngestReport, error)
}
