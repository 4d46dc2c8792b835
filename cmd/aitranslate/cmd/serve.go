package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mfenderov/aitranslate/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for HTML translation.

The server communicates via stdio and provides four tools:
  - translate_html: Translate an HTML document (cached per ID)
  - summarize_html: Summarize an HTML document (cached per ID)
  - get_cached: Read a cached translation or summary
  - invalidate: Drop cached results for a document

Results live in memory for the lifetime of the server.

Example:
  AITRANSLATE_LLM_API_KEY=sk-... aitranslate serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	service, err := newService(&cfg)
	if err != nil {
		return err
	}

	engine, err := newEngine(ctx, &cfg)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, service, engine)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}
