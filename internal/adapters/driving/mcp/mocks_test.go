package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
)

// mockConversation is a mock implementation of driving.Conversation.
type mockConversation struct {
	turns []domain.ConversationTurn
}

func (m *mockConversation) Transcript() string {
	var b strings.Builder
	for _, t := range m.turns {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", t.Question, t.Answer)
	}
	return b.String()
}

func (m *mockConversation) Append(turn domain.ConversationTurn) {
	m.turns = append(m.turns, turn)
}

func (m *mockConversation) Len() int {
	return len(m.turns)
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	sessions map[string]*mockConversation
	created  int
	reset    []string
}

func newMockSessionService() *mockSessionService {
	return &mockSessionService{sessions: make(map[string]*mockConversation)}
}

func (m *mockSessionService) Session(id string) driving.Conversation {
	conv, ok := m.sessions[id]
	if !ok {
		conv = &mockConversation{}
		m.sessions[id] = conv
	}
	return conv
}

func (m *mockSessionService) NewSession() string {
	m.created++
	id := fmt.Sprintf("session-%d", m.created)
	m.sessions[id] = &mockConversation{}
	return id
}

func (m *mockSessionService) Reset(id string) {
	m.reset = append(m.reset, id)
	delete(m.sessions, id)
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	response  *domain.QueryResponse
	err       error
	questions []string
}

func (m *mockQueryService) Ask(
	_ context.Context,
	conv driving.Conversation,
	question string,
) (*domain.QueryResponse, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	conv.Append(domain.ConversationTurn{Question: question, Answer: m.response.Answer})
	return m.response, nil
}
