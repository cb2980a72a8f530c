// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the outcome of a question back to the model.
type AnswerReceived struct {
	Question string
	Response *domain.QueryResponse
	Err      error
}

// SessionReset signals that the conversation was discarded.
type SessionReset struct {
	SessionID string
}

// PromptReloaded signals that a prompt template changed on disk.
type PromptReloaded struct {
	Name string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
