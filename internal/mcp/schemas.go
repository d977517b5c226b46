package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexPathTool returns the tool definition for index_path
func indexPathTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_path",
		Description: "Index a text file or directory tree to make it semantically searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a text file or a directory to index recursively",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, reprocess files that already have a record",
					"default":     false,
				},
				"concurrency": map[string]interface{}{
					"type":        "integer",
					"description": "Files processed concurrently per batch (1-16)",
					"default":     3,
					"minimum":     1,
					"maximum":     16,
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchFilesTool returns the tool definition for search_files
func searchFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_files",
		Description: "Search indexed files with a natural language query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language search query",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
				"min_similarity": map[string]interface{}{
					"type":        "number",
					"description": "Minimum cosine similarity for retrieval candidates (0.0-1.0)",
					"default":     0.3,
					"minimum":     0.0,
					"maximum":     1.0,
				},
				"min_score": map[string]interface{}{
					"type":        "number",
					"description": "Minimum rerank relevance score for final results (0-100)",
					"default":     40,
					"minimum":     0,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// fileInfoTool returns the tool definition for file_info
func fileInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "file_info",
		Description: "Retrieve the stored metadata and summary for an indexed file by id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Record id returned by index_path or search_files",
				},
			},
			Required: []string{"id"},
		},
	}
}

// getStatsTool returns the tool definition for get_stats
func getStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_stats",
		Description: "Query store statistics: document count, vector coverage, database size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{},
		},
	}
}
