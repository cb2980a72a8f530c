// Package pdf loads PDF documents page by page.
package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/normalisers"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// PageExtractor returns the raw text of every physical page of a PDF, in order.
// This abstraction allows injecting a test double.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// Loader handles PDF documents.
type Loader struct {
	extractor PageExtractor
}

// New creates a PDF loader backed by github.com/ledongthuc/pdf.
func New() *Loader {
	return &Loader{extractor: plainTextExtractor{}}
}

// NewWithExtractor creates a PDF loader with a custom extractor.
func NewWithExtractor(extractor PageExtractor) *Loader {
	return &Loader{extractor: extractor}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load extracts one PageRecord per physical page.
func (l *Loader) Load(ctx context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error) {
	if err := normalisers.CheckSource(doc); err != nil {
		return nil, err
	}

	pages, err := l.extractor.ExtractPages(ctx, doc.Path)
	if err != nil {
		return nil, normalisers.Unreadable(doc, err)
	}
	return normalisers.Pages(doc, pages), nil
}

// plainTextExtractor reads pages with ledongthuc/pdf.
type plainTextExtractor struct{}

// ExtractPages returns the plain text of each page. Pages without
// content yield an empty string so page numbering is preserved.
// The PDF parser panics on some malformed input; that is reported as an error.
func (plainTextExtractor) ExtractPages(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, content)
	}
	return pages, nil
}
