package driven

import (
	"context"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// DocumentLoader extracts normalised per-page text from a corpus file.
type DocumentLoader interface {
	// Extensions returns the file extensions (with dot) this loader handles.
	Extensions() []string

	// Load returns one PageRecord per physical page, starting at page 1.
	// A missing file returns an error wrapping domain.ErrDocumentMissing;
	// an unparsable one wraps domain.ErrDocumentUnreadable.
	Load(ctx context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error)
}

// LoaderRegistry dispatches documents to loaders by file extension.
type LoaderRegistry interface {
	// Register adds a loader for each of its extensions.
	Register(loader DocumentLoader)

	// Load loads doc with the matching loader. Unknown extensions
	// return an error wrapping domain.ErrUnsupportedType.
	Load(ctx context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error)

	// Extensions returns all registered extensions.
	Extensions() []string
}
