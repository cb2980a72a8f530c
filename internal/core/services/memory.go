package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
)

// Ensure Memory and SessionRegistry implement the interfaces.
var (
	_ driving.Conversation   = (*Memory)(nil)
	_ driving.SessionService = (*SessionRegistry)(nil)
)

// Transcript line prefixes.
const (
	questionPrefix = "Patient: "
	answerPrefix   = "Réponse: "
)

// Memory is the ordered question/answer history of one conversation.
// Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	turns    []domain.ConversationTurn
	maxTurns int
}

// NewMemory creates an empty memory. maxTurns > 0 keeps only the most
// recent turns; zero keeps everything.
func NewMemory(maxTurns int) *Memory {
	return &Memory{maxTurns: maxTurns}
}

// Append records a completed exchange.
func (m *Memory) Append(turn domain.ConversationTurn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, turn)
	if m.maxTurns > 0 && len(m.turns) > m.maxTurns {
		m.turns = append([]domain.ConversationTurn(nil), m.turns[len(m.turns)-m.maxTurns:]...)
	}
}

// Transcript renders the history, two lines per turn. Empty when no turns.
func (m *Memory) Transcript() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]string, 0, len(m.turns)*2)
	for _, t := range m.turns {
		lines = append(lines, questionPrefix+t.Question, answerPrefix+t.Answer)
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of turns.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// Turns returns a copy of the turns, oldest first.
func (m *Memory) Turns() []domain.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ConversationTurn(nil), m.turns...)
}

// SessionRegistry holds one Memory per session id.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Memory
	maxTurns int
}

// NewSessionRegistry creates an empty registry whose memories keep at
// most maxTurns turns (zero is unbounded).
func NewSessionRegistry(maxTurns int) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Memory),
		maxTurns: maxTurns,
	}
}

// Session returns the conversation for id, creating it if needed.
func (r *SessionRegistry) Session(id string) driving.Conversation {
	return r.Get(id)
}

// Get returns the memory for id, creating it if needed.
func (r *SessionRegistry) Get(id string) *Memory {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.sessions[id]
	if !ok {
		m = NewMemory(r.maxTurns)
		r.sessions[id] = m
	}
	return m
}

// NewSession creates an empty conversation and returns its id.
func (r *SessionRegistry) NewSession() string {
	id := uuid.New().String()
	r.Get(id)
	return id
}

// Reset discards the conversation for id.
func (r *SessionRegistry) Reset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// IDs returns the known session ids, sorted.
func (r *SessionRegistry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
