package types

import "time"

// FileMetadata describes a single indexed file. Exactly one FileMetadata
// exists per distinct absolute path; the ID is preserved when the same path
// is re-indexed.
type FileMetadata struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	MIMEType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FileRecord is the persisted unit: metadata, a bounded-length summary, and
// an L2-normalized embedding. The embedding may be empty when the record was
// loaded without its vector (see storage.GetEmbedding).
type FileRecord struct {
	FileMetadata
	Summary   string    `json:"summary"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Usage aggregates token consumption reported by the semantic provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another usage report into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// FileState is the per-file indexing state.
// Transitions: discovered -> {skipped | queued} -> processing -> {completed | errored}.
type FileState string

const (
	StateDiscovered FileState = "discovered"
	StateSkipped    FileState = "skipped"
	StateQueued     FileState = "queued"
	StateProcessing FileState = "processing"
	StateCompleted  FileState = "completed"
	StateErrored    FileState = "errored"
)

// Terminal reports whether no further transition is possible from s.
func (s FileState) Terminal() bool {
	return s == StateSkipped || s == StateCompleted || s == StateErrored
}

// FileError records a single file's failure during a batch run.
type FileError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// IndexStats summarizes one indexing run.
type IndexStats struct {
	FilesDiscovered int           `json:"files_discovered"`
	FilesIndexed    int           `json:"files_indexed"`
	FilesSkipped    int           `json:"files_skipped"`
	FilesErrored    int           `json:"files_errored"`
	Errors          []FileError   `json:"errors,omitempty"`
	Usage           Usage         `json:"usage"`
	Duration        time.Duration `json:"duration"`
}

// StoreStats describes the persisted store for status reporting.
type StoreStats struct {
	TotalDocuments      int     `json:"total_documents"`
	VectorCount         int     `json:"vector_count"`
	VectorIndexCoverage float64 `json:"vector_index_coverage"`
	EmbeddingDimension  int     `json:"embedding_dimension"`
	DatabaseSizeBytes   int64   `json:"database_size_bytes"`
}
