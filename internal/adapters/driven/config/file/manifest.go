package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// manifestFile is the on-disk shape of the corpus manifest:
//
//	documents:
//	  - path: docs/guide.pdf
//	    title: Mieux vivre avec la dépression
type manifestFile struct {
	Documents []domain.SourceDocument `yaml:"documents"`
}

// LoadManifest reads the ordered document list from a YAML manifest.
// Relative paths are resolved against the manifest's directory. A missing
// or malformed manifest is a configuration error; missing documents are not
// checked here, the ingestion stage skips them.
func LoadManifest(path string) ([]domain.SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: manifest %s not found", domain.ErrConfiguration, path)
		}
		return nil, fmt.Errorf("%w: read manifest: %w", domain.ErrConfiguration, err)
	}

	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: parse manifest %s: %w", domain.ErrConfiguration, path, err)
	}

	base := filepath.Dir(path)
	docs := make([]domain.SourceDocument, 0, len(mf.Documents))
	for i, doc := range mf.Documents {
		doc.Path = strings.TrimSpace(doc.Path)
		if doc.Path == "" {
			return nil, fmt.Errorf("%w: manifest entry %d has no path", domain.ErrConfiguration, i+1)
		}
		if !filepath.IsAbs(doc.Path) {
			doc.Path = filepath.Join(base, doc.Path)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SaveManifest writes docs as a YAML manifest.
func SaveManifest(path string, docs []domain.SourceDocument) error {
	data, err := yaml.Marshal(manifestFile{Documents: docs})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
