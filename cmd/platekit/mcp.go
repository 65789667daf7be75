package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/towerlab/platekit"
	mcpadapter "github.com/towerlab/platekit/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the toolkit as MCP tools",
	Long: `mcp exposes the four apps as Model Context Protocol tools, so agent
hosts can count stages or solve envelopes over stdio or SSE.`,
	RunE: runMCP,
}

func init() {
	f := mcpCmd.Flags()
	f.String("transport", "stdio", "Transport: stdio or sse")
	f.Int("port", 8090, "Port for the sse transport")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	catalog, err := newCatalog(cmd)
	if err != nil {
		return err
	}
	server := mcpadapter.NewServer(catalog, platekit.Version)

	transport, _ := cmd.Flags().GetString("transport")
	switch transport {
	case "stdio":
		// Stdout carries the protocol; logs already go to stderr.
		return server.ServeStdio()
	case "sse":
		port, _ := cmd.Flags().GetInt("port")
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport %q: want stdio or sse", transport)
	}
}
