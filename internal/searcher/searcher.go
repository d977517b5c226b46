// Package searcher answers natural-language queries by fusing vector
// similarity retrieval with provider reranking: embed the query, over-fetch
// nearest neighbors, floor by similarity, rerank the survivors' summaries,
// and return the top results ordered by final score.
package searcher

import (
	"context"
	"sort"

	"semindex/internal/provider"
	"semindex/internal/storage"
	"semindex/pkg/types"
)

// Defaults for search options
const (
	DefaultTopK          = 5
	DefaultMinSimilarity = 0.3
	DefaultMinScore      = 40.0
)

// overFetchCandidates returns how many nearest neighbors to pull before
// filtering and reranking.
func overFetchCandidates(topK int) int {
	n := topK * 3
	if n < 10 {
		n = 10
	}
	return n
}

// Options configures one search. A nil Options applies the defaults above.
// Explicit values are taken as given, so a zero threshold genuinely means no
// floor; both thresholds are inclusive. A TopK below 1 falls back to
// DefaultTopK.
type Options struct {
	TopK          int
	MinSimilarity float64
	MinScore      float64
}

func defaultOptions() *Options {
	return &Options{
		TopK:          DefaultTopK,
		MinSimilarity: DefaultMinSimilarity,
		MinScore:      DefaultMinScore,
	}
}

// Response is the search result envelope. FallbackUsed reports that the
// reranker's output was unusable and the similarity ordering was kept.
type Response struct {
	Results      []types.SearchResult `json:"results"`
	FallbackUsed bool                 `json:"fallback_used,omitempty"`
	Usage        types.Usage          `json:"usage"`
}

// Searcher runs the retrieval and rerank pipeline over one store and
// provider.
type Searcher struct {
	store    storage.VectorStore
	provider provider.SemanticProvider
}

// New creates a Searcher.
func New(store storage.VectorStore, prov provider.SemanticProvider) *Searcher {
	return &Searcher{store: store, provider: prov}
}

// Search embeds the query, retrieves and filters candidates, reranks their
// summaries, and returns up to TopK results by descending final score.
// Provider and storage failures abort the query; there is no per-file
// isolation on the search path.
func (s *Searcher) Search(ctx context.Context, query string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = defaultOptions()
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	resp := &Response{Results: []types.SearchResult{}}

	embedding, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	resp.Usage.Add(embedding.Usage)
	queryVector := storage.Normalize(embedding.Vector)

	candidates, err := s.store.RetrieveByEmbedding(ctx, queryVector, overFetchCandidates(topK))
	if err != nil {
		return nil, err
	}

	// Similarity floor before any provider spend
	similarity := make(map[string]float64, len(candidates))
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Similarity >= opts.MinSimilarity {
			similarity[c.ID] = c.Similarity
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return resp, nil
	}

	rerankInput := make([]provider.Candidate, 0, len(kept))
	records := make(map[string]*types.FileRecord, len(kept))
	for _, c := range kept {
		record, err := s.store.GetByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		records[c.ID] = record
		rerankInput = append(rerankInput, provider.Candidate{ID: c.ID, Summary: record.Summary})
	}

	ranking, err := s.provider.Rerank(ctx, query, rerankInput, topK)
	if err != nil {
		return nil, err
	}
	resp.Usage.Add(ranking.Usage)
	resp.FallbackUsed = ranking.FallbackUsed

	// The ranking is untrusted: join defensively by id and re-apply the
	// ordering guarantee ourselves.
	results := make([]types.SearchResult, 0, len(ranking.Items))
	for _, item := range ranking.Items {
		record, ok := records[item.ID]
		if !ok {
			continue
		}
		results = append(results, types.SearchResult{
			ID:         item.ID,
			Score:      item.Score,
			Similarity: similarity[item.ID],
			Metadata:   record.FileMetadata,
			Summary:    record.Summary,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	for _, r := range results {
		if r.Score >= opts.MinScore {
			resp.Results = append(resp.Results, r)
		}
	}

	return resp, nil
}
