// Package mcp provides an MCP (Model Context Protocol) server adapter for clinirag.
// It lets AI assistants ask clinical questions against the indexed corpus.
package mcp

import "errors"

var (
	// ErrMissingQueryService is returned when the query service is not provided.
	ErrMissingQueryService = errors.New("mcp: query service is required")

	// ErrMissingSessionService is returned when the session service is not provided.
	ErrMissingSessionService = errors.New("mcp: session service is required")

	// ErrEmptyQuestion is returned by the ask tool for a blank question.
	ErrEmptyQuestion = errors.New("mcp: question is required")
)
