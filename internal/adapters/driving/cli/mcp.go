package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clinirag/internal/adapters/driving/mcp"
	"github.com/custodia-labs/clinirag/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes an "ask" tool answering questions from the corpus with
cited sources, a "reset_session" tool, and the clinirag://corpus and
clinirag://sessions/{sessionId} resources. Each session keeps its own
conversation history.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  clinirag mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  clinirag mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "clinirag": {
        "command": "/path/to/clinirag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	rt, err := startRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if rt.WatchPrompts != nil {
		if _, err := rt.WatchPrompts(cmd.Context()); err != nil {
			logger.Warn("prompt reloading disabled: %v", err)
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Query:    rt.Query,
		Sessions: rt.Sessions,
		Report:   rt.Report,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
