package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for clinirag resources.
	uriScheme = "clinirag://"
)

// corpusInfo is the JSON shape of the corpus resource.
type corpusInfo struct {
	Documents int      `json:"documents"`
	Pages     int      `json:"pages"`
	Chunks    int      `json:"chunks"`
	Skipped   []string `json:"skipped"`
	Loaded    bool     `json:"loaded_from_store"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Summary of the indexed document corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}",
		Name:        "session-transcript",
		Description: "Conversation history of a session",
		MIMEType:    "text/plain",
	}, s.handleSessionResource)
}

// handleCorpusResource returns the ingest report.
func (s *Server) handleCorpusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := corpusInfo{Skipped: []string{}}
	if r := s.ports.Report; r != nil {
		info.Documents = r.Documents
		info.Pages = r.Pages
		info.Chunks = r.Chunks
		info.Loaded = r.Loaded
		if r.Skipped != nil {
			info.Skipped = r.Skipped
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSessionResource returns the transcript of a session.
func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSessionID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	conv := s.ports.Sessions.Session(id)
	if conv.Len() == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     conv.Transcript(),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like clinirag://sessions/{sessionId}.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
