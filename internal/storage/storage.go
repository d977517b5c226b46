package storage

import (
	"context"
	"errors"
	"fmt"

	"semindex/pkg/types"
)

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// StorageError wraps a persistence-layer failure, including embedding
// validation failures. It is fatal to the operation in progress.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Candidate is a nearest-neighbor retrieval hit: a record id and its cosine
// similarity to the query vector.
type Candidate struct {
	ID         string
	Similarity float64
}

// VectorStore persists file metadata, summaries, and embeddings.
//
// GetByID and GetByPath always return metadata plus summary; the embedding is
// retrieved separately via GetEmbedding. RetrieveByEmbedding returns up to
// limit candidates ordered by descending similarity regardless of whether the
// sqlite-vec extension or the linear-scan fallback computed them.
type VectorStore interface {
	Upsert(ctx context.Context, record *types.FileRecord) error
	GetByID(ctx context.Context, id string) (*types.FileRecord, error)
	GetByPath(ctx context.Context, path string) (*types.FileRecord, error)
	GetEmbedding(ctx context.Context, id string) ([]float32, error)
	ListAll(ctx context.Context) ([]*types.FileRecord, error)
	Count(ctx context.Context) (int, error)
	VectorCount(ctx context.Context) (int, error)
	HasVectorIndex(ctx context.Context) (bool, error)
	RetrieveByEmbedding(ctx context.Context, query []float32, limit int) ([]Candidate, error)
	Stats(ctx context.Context) (*types.StoreStats, error)
	Close() error
}
