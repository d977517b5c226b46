// Package mcp implements the Model Context Protocol (MCP) server surface.
//
// The server exposes four tools to MCP clients over stdio (JSON-RPC 2.0):
//   - index_path: Index a text file or directory tree
//   - search_files: Search indexed files with natural language queries
//   - file_info: Retrieve a record's metadata and summary by id
//   - get_stats: Query store statistics
//
// Tool results are indented JSON text; failures are JSON-RPC errors with
// these codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (provider, storage, filesystem)
//   - -32001: Record not found
//   - -32002: Empty query
//
// Stdout is reserved for the protocol; anything the process logs goes to
// stderr.
package mcp
