package normalisers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/normalisers/text"
)

// CheckSource verifies that doc points at a readable regular file.
func CheckSource(doc domain.SourceDocument) error {
	info, err := os.Stat(doc.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentMissing, doc.Path)
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrDocumentUnreadable, doc.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrDocumentUnreadable, doc.Path)
	}
	return nil
}

// ReadSource checks doc and returns the file content.
func ReadSource(doc domain.SourceDocument) ([]byte, error) {
	if err := CheckSource(doc); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDocumentUnreadable, doc.Path, err)
	}
	return data, nil
}

// Unreadable wraps a parse failure for doc.
func Unreadable(doc domain.SourceDocument, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDocumentUnreadable, doc.Path, err)
}

// Pages normalises one extracted text per physical page and attaches
// provenance. Page numbers start at 1. Pages are kept even when their text
// is empty so numbering matches the physical document.
func Pages(doc domain.SourceDocument, pageTexts []string) []domain.PageRecord {
	title := doc.Title
	if title == "" {
		title = TitleFromPath(doc.Path)
	}

	records := make([]domain.PageRecord, len(pageTexts))
	for i, raw := range pageTexts {
		records[i] = domain.PageRecord{
			Text: text.Normalise(raw),
			Metadata: domain.Provenance{
				Source: doc.Path,
				Title:  title,
				Page:   i + 1,
			},
		}
	}
	return records
}

// TitleFromPath derives a human-readable title from a file name.
func TitleFromPath(path string) string {
	filename := filepath.Base(path)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return strings.TrimSpace(filename)
}
