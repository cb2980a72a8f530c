package domain

import (
	"path/filepath"
	"strings"
)

// SourceDocument identifies one ingestible corpus file.
// It is provided at startup and never mutated.
type SourceDocument struct {
	// Path is the file location on disk.
	Path string `json:"path" yaml:"path"`

	// Title is the human-readable name shown in citations.
	Title string `json:"title" yaml:"title"`
}

// Ext returns the lower-cased file extension including the dot.
func (d SourceDocument) Ext() string {
	return strings.ToLower(filepath.Ext(d.Path))
}

// Provenance records where a piece of text came from.
// It is copied by value from a page onto each of its chunks.
type Provenance struct {
	// Source is the path of the originating document.
	Source string `json:"source"`

	// Title is the originating document's title.
	Title string `json:"title"`

	// Page is the 1-based physical page number.
	Page int `json:"page"`
}

// PageRecord is the normalised text of one physical page.
type PageRecord struct {
	Text     string
	Metadata Provenance
}

// Chunk is a bounded-length window of page text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// Text is the chunk content, at most chunk_size characters.
	Text string `json:"text"`

	// Position is the window ordinal within its page.
	Position int `json:"position"`

	// Metadata is inherited unchanged from the parent page.
	Metadata Provenance `json:"metadata"`
}

// IndexedVector pairs a chunk with its embedding.
type IndexedVector struct {
	Embedding []float32
	Chunk     Chunk
}

// IngestReport summarises a corpus load.
type IngestReport struct {
	// Documents is the number of documents that were loaded.
	Documents int

	// Pages is the number of page records produced.
	Pages int

	// Chunks is the number of chunks produced.
	Chunks int

	// Skipped lists the paths of documents that were missing or unreadable.
	Skipped []string

	// Loaded is true when the index came from the persisted store
	// instead of being embedded again.
	Loaded bool
}
