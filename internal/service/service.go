// Package service is the public facade over the indexing and search core.
// Outer surfaces (CLI, MCP server) call only this package, never the
// internals directly.
package service

import (
	"context"
	"errors"

	"semindex/internal/indexer"
	"semindex/internal/provider"
	"semindex/internal/searcher"
	"semindex/internal/storage"
	"semindex/pkg/types"
)

// Service bundles the store and provider behind the core operations. The
// provider handle is injected explicitly at construction; nothing downstream
// reads ambient configuration.
type Service struct {
	store    storage.VectorStore
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
}

// New creates a Service over an open store and a configured provider.
func New(store storage.VectorStore, prov provider.SemanticProvider) *Service {
	return &Service{
		store:    store,
		indexer:  indexer.New(store, prov),
		searcher: searcher.New(store, prov),
	}
}

// IndexPath indexes a file or directory tree.
func (s *Service) IndexPath(ctx context.Context, path string, opts *indexer.Options) (*types.IndexStats, error) {
	return s.indexer.IndexPath(ctx, path, opts)
}

// IndexFile indexes a single file unconditionally and reports token usage.
func (s *Service) IndexFile(ctx context.Context, path string) (types.Usage, error) {
	return s.indexer.IndexFile(ctx, path)
}

// Search runs the retrieval and rerank pipeline for a query.
func (s *Service) Search(ctx context.Context, query string, opts *searcher.Options) (*searcher.Response, error) {
	return s.searcher.Search(ctx, query, opts)
}

// Info returns the record for an id, or nil when no record exists.
func (s *Service) Info(ctx context.Context, id string) (*types.FileRecord, error) {
	record, err := s.store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Count returns the number of indexed documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// VectorCount returns the number of stored embeddings.
func (s *Service) VectorCount(ctx context.Context) (int, error) {
	return s.store.VectorCount(ctx)
}

// HasVectorIndex reports whether an embedding dimension is established.
func (s *Service) HasVectorIndex(ctx context.Context) (bool, error) {
	return s.store.HasVectorIndex(ctx)
}

// Stats returns store-level statistics.
func (s *Service) Stats(ctx context.Context) (*types.StoreStats, error) {
	return s.store.Stats(ctx)
}
