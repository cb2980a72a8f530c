package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry selects a DocumentLoader by file extension.
// A later registration for the same extension replaces the earlier one.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]driven.DocumentLoader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]driven.DocumentLoader)}
}

// Register adds a loader for each of its extensions.
func (r *Registry) Register(loader driven.DocumentLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range loader.Extensions() {
		r.loaders[strings.ToLower(ext)] = loader
	}
}

// Load loads doc with the loader registered for its extension.
func (r *Registry) Load(ctx context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error) {
	r.mu.RLock()
	loader, ok := r.loaders[doc.Ext()]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %w: no loader for %q", domain.ErrIngestion, domain.ErrUnsupportedType, doc.Ext())
	}
	return loader.Load(ctx, doc)
}

// Extensions returns all registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
