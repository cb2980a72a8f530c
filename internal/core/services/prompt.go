package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// Template placeholders.
const (
	placeholderContext  = "{context}"
	placeholderHistory  = "{chat_history}"
	placeholderQuestion = "{question}"
)

// contextSeparator joins retrieved chunk texts.
const contextSeparator = "\n\n"

// PromptAssembler fills the answer template with context, history and question.
type PromptAssembler struct {
	prompts driven.PromptStore
}

// NewPromptAssembler creates an assembler reading its template from prompts.
func NewPromptAssembler(prompts driven.PromptStore) *PromptAssembler {
	return &PromptAssembler{prompts: prompts}
}

// Assemble substitutes every placeholder in a single pass, so text that
// itself contains a placeholder is never expanded again. Chunks appear in
// the order given.
func (a *PromptAssembler) Assemble(chunks []domain.Chunk, transcript, question string) (string, error) {
	template, err := a.prompts.Load(driven.PromptClinicalAnswer)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt: %w", domain.ErrConfiguration, err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	r := strings.NewReplacer(
		placeholderContext, strings.Join(texts, contextSeparator),
		placeholderHistory, transcript,
		placeholderQuestion, question,
	)
	return r.Replace(template), nil
}
