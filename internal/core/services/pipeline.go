package services

import (
	"context"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// Pipeline groups the components shared by every query. It is built once
// at startup and read concurrently afterwards.
type Pipeline struct {
	Corpus    *CorpusService
	Index     *IndexService
	Prompts   *PromptAssembler
	Generator *AnswerGenerator
	Sessions  *SessionRegistry

	// TopK is the number of chunks retrieved per question.
	TopK int

	closers []func() error
}

// AddCloser registers a release function run by Close, in reverse order.
func (p *Pipeline) AddCloser(fn func() error) {
	p.closers = append(p.closers, fn)
}

// Prepare ingests docs and readies the index.
func (p *Pipeline) Prepare(ctx context.Context, docs []domain.SourceDocument) (*domain.IngestReport, error) {
	return p.Corpus.Prepare(ctx, docs)
}

// Close releases adapter resources. The first error is returned.
func (p *Pipeline) Close() error {
	var first error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	p.closers = nil
	return first
}
