package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the patient's question or description of symptoms"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation to continue; omit to start a new one"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Response  string             `json:"response"`
	Sources   []domain.SourceRef `json:"sources"`
	SessionID string             `json:"session_id"`
}

// ResetInput is the input schema for the reset_session tool.
type ResetInput struct {
	SessionID string `json:"session_id" jsonschema:"conversation to discard"`
}

// ResetOutput is the output schema for the reset_session tool.
type ResetOutput struct {
	SessionID string `json:"session_id"`
	Reset     bool   `json:"reset"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a clinical question answered from the indexed medical literature, with cited sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset_session",
		Description: "Discard the conversation history of a session",
	}, s.handleReset)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, ErrEmptyQuestion
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = s.ports.Sessions.NewSession()
	}

	resp, err := s.ports.Query.Ask(ctx, s.ports.Sessions.Session(sessionID), input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := resp.Sources
	if sources == nil {
		sources = []domain.SourceRef{}
	}

	return nil, AskOutput{
		Response:  resp.Answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}

// handleReset handles the reset_session tool invocation.
func (s *Server) handleReset(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResetInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	if input.SessionID == "" {
		return nil, ResetOutput{}, nil
	}
	s.ports.Sessions.Reset(input.SessionID)
	return nil, ResetOutput{SessionID: input.SessionID, Reset: true}, nil
}
