package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semindex/internal/provider"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv(provider.EnvAPIKey, "test-key")

	server, err := NewServer(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.store.Close() })
	return server
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)
	assert.NotNil(t, server.mcp)
	assert.NotNil(t, server.store)
	assert.NotNil(t, server.service)
}

func TestNewServer_MissingCredential(t *testing.T) {
	t.Setenv(provider.EnvAPIKey, "")
	t.Setenv(provider.EnvAccessToken, "")
	t.Setenv(provider.EnvOpenAIKey, "")

	_, err := NewServer(filepath.Join(t.TempDir(), "test.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}

func TestHandleIndexPath_ParamValidation(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, err := server.handleIndexPath(ctx, toolRequest(map[string]interface{}{}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = server.handleIndexPath(ctx, toolRequest(map[string]interface{}{
		"path": "relative/path",
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = server.handleIndexPath(ctx, toolRequest(map[string]interface{}{
		"path": "/nonexistent/path/for/testing",
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = server.handleIndexPath(ctx, toolRequest(map[string]interface{}{
		"path":        t.TempDir(),
		"concurrency": float64(99),
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestHandleSearchFiles_ParamValidation(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, err := server.handleSearchFiles(ctx, toolRequest(map[string]interface{}{}))
	requireMCPError(t, err, ErrorCodeEmptyQuery)

	_, err = server.handleSearchFiles(ctx, toolRequest(map[string]interface{}{
		"query": "x",
		"top_k": float64(0),
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestHandleFileInfo_NotFound(t *testing.T) {
	server := setupTestServer(t)

	_, err := server.handleFileInfo(context.Background(), toolRequest(map[string]interface{}{
		"id": "no-such-record",
	}))
	requireMCPError(t, err, ErrorCodeNotIndexed)
}

func TestHandleGetStats_EmptyStore(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleGetStats(context.Background(), toolRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.NotNil(t, result)
}

func requireMCPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var merr *MCPError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, code, merr.Code)
}
