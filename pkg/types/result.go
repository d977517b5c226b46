package types

// SearchResult combines reranked relevance with the original vector match.
// Score is the provider-assigned relevance on a 0–100 scale; Similarity is
// the cosine similarity of the normalized embeddings in [0.0, 1.0].
type SearchResult struct {
	ID         string       `json:"id"`
	Score      float64      `json:"score"`
	Similarity float64      `json:"similarity"`
	Metadata   FileMetadata `json:"metadata"`
	Summary    string       `json:"summary"`
}
