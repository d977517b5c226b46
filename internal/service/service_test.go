package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semindex/internal/provider"
	"semindex/internal/storage"
	"semindex/pkg/types"
)

// echoProvider behaves like a well-formed model: summaries echo the input,
// embeddings point the same way for related texts, and reranking scores
// candidates in input order.
type echoProvider struct{}

func (echoProvider) Summarize(ctx context.Context, text string, maxChars int) (*provider.Summary, error) {
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return &provider.Summary{Text: text, Usage: types.Usage{TotalTokens: 5}}, nil
}

func (echoProvider) Embed(ctx context.Context, text string) (*provider.Embedding, error) {
	return &provider.Embedding{Vector: []float32{1, 0.5, 0}, Usage: types.Usage{TotalTokens: 2}}, nil
}

func (echoProvider) Rerank(ctx context.Context, query string, candidates []provider.Candidate, topK int) (*provider.Ranking, error) {
	if topK > len(candidates) {
		topK = len(candidates)
	}
	items := make([]provider.RankedItem, topK)
	for i := 0; i < topK; i++ {
		items[i] = provider.RankedItem{ID: candidates[i].ID, Score: float64(95 - i)}
	}
	return &provider.Ranking{Items: items, Usage: types.Usage{TotalTokens: 4}}, nil
}

func setupService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, echoProvider{})
}

func TestIndexThenSearch_EndToEnd(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte("installation guide"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	stats, err := svc.IndexPath(ctx, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesIndexed)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	resp, err := svc.Search(ctx, "how do I install", nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "guide.md", resp.Results[0].Metadata.Name)
	assert.InDelta(t, 1.0, resp.Results[0].Similarity, 1e-5)
}

func TestInfo_NilWhenNotFound(t *testing.T) {
	svc := setupService(t)

	record, err := svc.Info(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestInfo_ReturnsRecord(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("alpha"), 0o644))

	usage, err := svc.IndexFile(ctx, path)
	require.NoError(t, err)
	assert.Greater(t, usage.TotalTokens, 0)

	records, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, records.TotalDocuments)

	has, err := svc.HasVectorIndex(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	vcount, err := svc.VectorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, vcount)
}
