package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"semindex/internal/indexer"
	"semindex/internal/searcher"
	"semindex/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotIndexed    = -32001 // Requested record does not exist
	ErrorCodeEmptyQuery    = -32002 // Query parameter is empty
)

// handleIndexPath handles the index_path tool invocation
func (s *Server) handleIndexPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	force, _ := args["force"].(bool)
	concurrency := getIntDefault(args, "concurrency", indexer.DefaultConcurrency)
	if concurrency < 1 || concurrency > 16 {
		return nil, newMCPError(ErrorCodeInvalidParams, "concurrency must be between 1 and 16", map[string]interface{}{
			"param": "concurrency",
			"value": concurrency,
		})
	}

	stats, err := s.service.IndexPath(ctx, path, &indexer.Options{
		Concurrency: concurrency,
		Force:       force,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":          true,
		"files_discovered": stats.FilesDiscovered,
		"files_indexed":    stats.FilesIndexed,
		"files_skipped":    stats.FilesSkipped,
		"files_errored":    stats.FilesErrored,
		"total_tokens":     stats.Usage.TotalTokens,
		"duration_ms":      stats.Duration.Milliseconds(),
	}
	if len(stats.Errors) > 0 {
		errorCount := len(stats.Errors)
		if errorCount > 5 {
			response["errors"] = stats.Errors[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.Errors
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchFiles handles the search_files tool invocation
func (s *Server) handleSearchFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", searcher.DefaultTopK)
	if topK < 1 || topK > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be between 1 and 50", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	resp, err := s.service.Search(ctx, query, &searcher.Options{
		TopK:          topK,
		MinSimilarity: getFloatDefault(args, "min_similarity", searcher.DefaultMinSimilarity),
		MinScore:      getFloatDefault(args, "min_score", searcher.DefaultMinScore),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, map[string]interface{}{
			"id":         r.ID,
			"score":      r.Score,
			"similarity": r.Similarity,
			"path":       r.Metadata.Path,
			"name":       r.Metadata.Name,
			"summary":    r.Summary,
		})
	}

	response := map[string]interface{}{
		"query":         query,
		"results":       results,
		"fallback_used": resp.FallbackUsed,
		"total_tokens":  resp.Usage.TotalTokens,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFileInfo handles the file_info tool invocation
func (s *Server) handleFileInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	record, err := s.service.Info(ctx, id)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get record", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if record == nil {
		return nil, newMCPError(ErrorCodeNotIndexed, "no record with that id", map[string]interface{}{
			"id": id,
		})
	}

	response := map[string]interface{}{
		"id":          record.ID,
		"path":        record.Path,
		"name":        record.Name,
		"mime_type":   record.MIMEType,
		"size_bytes":  record.SizeBytes,
		"created_at":  record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"modified_at": record.ModifiedAt.Format("2006-01-02T15:04:05Z07:00"),
		"summary":     record.Summary,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStats handles the get_stats tool invocation
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.service.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get stats", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"total_documents":       stats.TotalDocuments,
		"vector_count":          stats.VectorCount,
		"vector_index_coverage": stats.VectorIndexCoverage,
		"embedding_dimension":   stats.EmbeddingDimension,
		"database_size_bytes":   stats.DatabaseSizeBytes,
		"build_mode":            storage.BuildMode,
		"vector_extension":      storage.VectorExtensionAvailable,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that an indexing target exists and is absolute.
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ErrPathNotFound
	} else if err != nil {
		return ErrPathNotReadable
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
)
