package driven

import (
	"context"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// IndexStore persists one built embedding index keyed by its identity.
type IndexStore interface {
	// Load returns the vectors stored under key. The bool is false when
	// no index with that key exists.
	Load(ctx context.Context, key string) ([]domain.IndexedVector, bool, error)

	// Save replaces any index stored under key. It is atomic: a failed
	// save leaves no partial index behind.
	Save(ctx context.Context, key string, identity domain.IndexIdentity, vectors []domain.IndexedVector) error

	// Prune deletes every stored index except keepKey.
	Prune(ctx context.Context, keepKey string) error

	// Close releases resources.
	Close() error
}
