package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/normalisers"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// PageBreak separates physical pages in plain text exports.
const PageBreak = "\f"

// Loader handles plain text documents.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".txt", ".text"}
}

// Load reads the file and splits it into pages on form feeds.
// A file without form feeds is a single page.
func (l *Loader) Load(_ context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error) {
	data, err := normalisers.ReadSource(doc)
	if err != nil {
		return nil, err
	}
	return normalisers.Pages(doc, SplitPages(string(data))), nil
}

// SplitPages splits content on form feeds. A trailing form feed does not
// start a new page.
func SplitPages(content string) []string {
	content = strings.TrimSuffix(content, PageBreak)
	return strings.Split(content, PageBreak)
}
