package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillframe/contexta/internal/adapters/driven/watch"
	"github.com/quillframe/contexta/internal/adapters/driving/mcp"
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

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --watch to watch a taxonomy data path and evict cached contexts
when it changes.

Examples:
  # Stdio mode (default, for Claude Desktop)
  contexta mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  contexta mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "contexta": {
        "command": "/path/to/contexta",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("watch", "", "taxonomy data path to watch for changes")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchPath, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ports := &mcp.Ports{
		Assembly: assemblyService,
	}
	if store != nil {
		ports.Taxonomy = store.TaxonomyStore()
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if watchPath != "" && store != nil {
		watcher, err := watch.NewWatcher(watchPath, store.CacheStore(), []string{"content"}, 0)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		watcher.Start()
		defer watcher.Close() //nolint:errcheck
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
