// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits page text into overlapping fixed-size windows.
// Sizes count characters (runes), not bytes.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the page text into chunks.
// Input chunks are ignored; this processor creates new chunks from page text.
func (p *Processor) Process(_ context.Context, page domain.PageRecord, _ []domain.Chunk) ([]domain.Chunk, error) {
	return p.Chunk(page), nil
}

// Chunk splits record.Text into windows. Window i starts at rune offset
// i*(size-overlap) and holds min(size, remaining) runes; the last window is
// the first one that reaches the end of the text. Every chunk carries the
// record's metadata unchanged. Empty text yields no chunks.
func (p *Processor) Chunk(record domain.PageRecord) []domain.Chunk {
	runes := []rune(record.Text)
	total := len(runes)
	if total == 0 {
		return nil
	}

	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, total/step+1)

	for position, start := 0, 0; ; position, start = position+1, start+step {
		end := start + p.chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Text:     string(runes[start:end]),
			Position: position,
			Metadata: record.Metadata,
		})

		if end == total {
			break
		}
	}

	return chunks
}
