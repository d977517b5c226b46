package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"semindex/internal/provider"
	"semindex/internal/service"
	"semindex/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "semindex"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// DefaultDBPath returns the default database file location.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".semindex", "semindex.db"), nil
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	store   storage.VectorStore
	service *service.Service
}

// NewServer creates a new MCP server instance. An empty dbPath uses the
// default location; a missing provider credential is a fatal precondition.
func NewServer(dbPath string) (*Server, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	prov, err := provider.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		store:   store,
		service: service.New(store, prov),
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexPathTool(), s.handleIndexPath)
	s.mcp.AddTool(searchFilesTool(), s.handleSearchFiles)
	s.mcp.AddTool(fileInfoTool(), s.handleFileInfo)
	s.mcp.AddTool(getStatsTool(), s.handleGetStats)
}
