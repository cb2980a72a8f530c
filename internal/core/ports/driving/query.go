package driving

import (
	"context"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// Conversation is the session state a query reads and extends.
// Implementations must serialise Append.
type Conversation interface {
	Transcript() string
	Append(turn domain.ConversationTurn)
	Len() int
}

// QueryService answers questions against the indexed corpus.
type QueryService interface {
	// Ask retrieves context for the question, generates an answer and,
	// on success only, appends the exchange to the conversation.
	Ask(ctx context.Context, conv Conversation, question string) (*domain.QueryResponse, error)
}

// SessionService scopes conversations by session identifier.
type SessionService interface {
	// Session returns the conversation for id, creating it if needed.
	Session(id string) Conversation

	// NewSession creates an empty conversation and returns its id.
	NewSession() string

	// Reset discards the conversation for id.
	Reset(id string)
}
