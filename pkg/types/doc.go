// Package types provides shared type definitions for the semindex store.
//
// This package defines the domain types used across the indexing and search
// components: file metadata, persisted records, search results, and usage
// accounting.
//
// # Core Types
//
// FileMetadata describes an indexed file. Its ID is an opaque identifier that
// stays stable across re-indexing of the same path:
//
//	meta := types.FileMetadata{
//	    ID:       "b7b1…",
//	    Path:     "/docs/notes.md",
//	    Name:     "notes.md",
//	    MIMEType: "text/markdown",
//	}
//
// FileRecord is the persisted unit: metadata plus a model-generated summary
// and an L2-normalized embedding vector. The embedding dimension is constant
// within one store instance.
//
// SearchResult is derived, never persisted. It carries both the final
// reranked score (0–100) and the original cosine similarity (0.0–1.0) so
// callers can distinguish "found but didn't rerank well" from "wasn't a
// vector match at all".
//
// Usage aggregates token consumption reported by the semantic provider across
// summarize, embed, and rerank calls.
package types
