// Package storage persists file records and embedding vectors in SQLite.
//
// # Schema
//
// Two tables share one key space: files holds metadata and the model-generated
// summary keyed by an opaque id, vectors holds the embedding blob keyed by the
// same id. A meta table records the established embedding dimension; mixing
// dimensionalities within one store is not supported, so an upsert carrying a
// new dimension rebuilds the vector index (discarding prior entries) before
// storing.
//
// # Dual build modes
//
// The package compiles in two configurations:
//
//	CGO_ENABLED=1 go build -tags sqlite_vec ./...   (mattn/go-sqlite3 + sqlite-vec)
//	CGO_ENABLED=0 go build ./...                    (modernc.org/sqlite, pure Go)
//
// With sqlite-vec, nearest-neighbor retrieval ranks candidates in SQL via
// 1.0 - vec_distance_cosine. Without it, a Go linear scan computes the dot
// product of unit-normalized vectors. Both paths produce the same monotonic
// ordering, so similarity-floor filtering downstream behaves identically.
//
// # Errors
//
// Lookup misses return ErrNotFound. Validation failures (empty or non-finite
// embeddings) and persistence failures are wrapped in StorageError and are
// fatal to the operation in progress.
package storage
