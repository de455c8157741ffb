// ABOUTME: Serve command starts the MCP server over stdio
// ABOUTME: Enables LLM agents to query household data and manage the index
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hearthkit/hearth/internal/mcp"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server for LLM agents",
		Long: `Start hearth as an MCP (Model Context Protocol) server on stdio.

Exposes household question answering and index management as tools
for LLM agents.`,
		RunE: runServe,
		Example: `  # Start the server (typically launched by an MCP client)
  hearth serve

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "hearth": {
  #       "command": "hearth",
  #       "args": ["serve"]
  #     }
  #   }
  # }`,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if os.Getenv("OPENAI_API_KEY") == "" && !quiet {
		log.Println("OPENAI_API_KEY not set; queries will fail until it is configured")
	}

	e, err := newEngine(true)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.vectors.InitializeCollection(cmd.Context()); err != nil {
		return fmt.Errorf("initializing collection: %w", err)
	}

	e.indexer.Start(e.cfg.IndexWorkers)

	server := mcpserver.NewMCPServer(
		"Hearth Household RAG",
		"0.1.0",
	)
	mcp.RegisterTools(server, e.rag, e.indexer, e.db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("hearth MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, draining indexing jobs...")
		}
		e.indexer.Stop()
		if !quiet {
			log.Println("Shutdown complete")
		}
	case err := <-serverErr:
		e.indexer.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
