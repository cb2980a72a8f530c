package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
	"github.com/custodia-labs/clinirag/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService runs one question through retrieval, prompt assembly and
// generation, then records the exchange.
type QueryService struct {
	pipeline *Pipeline
}

// NewQueryService creates a query service over a built pipeline.
func NewQueryService(pipeline *Pipeline) *QueryService {
	return &QueryService{pipeline: pipeline}
}

// Ask answers question within conv. The conversation is extended only when
// an answer was produced; any failure leaves it unchanged.
func (s *QueryService) Ask(ctx context.Context, conv driving.Conversation, question string) (*domain.QueryResponse, error) {
	logger.Section("Query")

	if conv == nil {
		return nil, fmt.Errorf("%w: no conversation", domain.ErrValidation)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrValidation)
	}
	logger.Debug("Question: %q", question)

	// Snapshot history before any external call
	transcript := conv.Transcript()

	results, err := s.pipeline.Index.Retrieve(ctx, question, s.pipeline.TopK)
	if err != nil {
		return nil, err
	}
	logger.Info("Retrieved %d chunks", len(results))

	chunks := make([]domain.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}

	prompt, err := s.pipeline.Prompts.Assemble(chunks, transcript, question)
	if err != nil {
		return nil, err
	}
	logger.Debug("Prompt: %d characters", len(prompt))

	answer, err := s.pipeline.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	conv.Append(domain.ConversationTurn{Question: question, Answer: answer})

	sources := make([]domain.SourceRef, len(results))
	for i, r := range results {
		sources[i] = domain.NewSourceRef(r.Chunk.Metadata)
	}

	return &domain.QueryResponse{Answer: answer, Sources: sources}, nil
}
