package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "semindex/internal/mcp"
	"semindex/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol; log to stderr only
		log.SetOutput(os.Stderr)
		log.Printf("semindex MCP server starting (build mode %s, vector extension %v)",
			storage.BuildMode, storage.VectorExtensionAvailable)

		srv, err := mcpserver.NewServer(flagDB)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Println("MCP server ready, listening on stdio...")
		return srv.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
