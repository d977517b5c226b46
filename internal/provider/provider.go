package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"semindex/pkg/types"
)

// Common errors
var (
	// ErrNotConfigured means no endpoint or credential is available. It is a
	// fatal precondition checked before any core operation.
	ErrNotConfigured = errors.New("no semantic provider configured")
	// ErrEmptyText rejects summarize/embed calls on empty input
	ErrEmptyText = errors.New("text cannot be empty")
)

// ProviderError wraps a failed summarize, embed, or rerank call. During
// indexing it isolates the file it occurred on; during search it aborts the
// query. Calls are never retried internally.
type ProviderError struct {
	Op  string // "summarize", "embed", or "rerank"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Summary is the result of a summarize call.
type Summary struct {
	Text      string
	Truncated bool
	Usage     types.Usage
}

// Embedding is the result of an embed call. The caller normalizes the vector
// to unit length before storage or comparison.
type Embedding struct {
	Vector []float32
	Usage  types.Usage
}

// Candidate is one rerank input: a record id and its stored summary.
type Candidate struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// RankedItem is one rerank output entry with a 0-100 relevance score.
type RankedItem struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Ranking is the tagged rerank result. FallbackUsed is set when the
// provider's output could not be parsed and a uniform descending-by-input-order
// assignment was substituted.
type Ranking struct {
	Items        []RankedItem
	FallbackUsed bool
	Usage        types.Usage
}

// SemanticProvider abstracts the external language-model API. Implementations
// must be safe for concurrent use: one provider handle is shared by every
// indexing task in a batch.
type SemanticProvider interface {
	// Summarize produces a short factual summary of at most maxChars
	// characters, with temperature pinned to zero.
	Summarize(ctx context.Context, text string, maxChars int) (*Summary, error)

	// Embed produces a fixed-dimension embedding vector for the text.
	Embed(ctx context.Context, text string) (*Embedding, error)

	// Rerank scores candidates against the query on a 0-100 scale. The
	// model's output is untrusted; malformed output degrades to a fallback
	// ranking rather than an error.
	Rerank(ctx context.Context, query string, candidates []Candidate, topK int) (*Ranking, error)
}

// credentialKind discriminates the two Credential variants.
type credentialKind int

const (
	credAPIKey credentialKind = iota + 1
	credAccessToken
)

// Credential is a two-variant tagged union: a static API key or a pre-issued
// access token (managed-identity style). It is resolved once at construction
// and never re-inspected downstream.
type Credential struct {
	kind   credentialKind
	secret string
}

// APIKeyCredential authenticates with a service API key.
func APIKeyCredential(key string) Credential {
	return Credential{kind: credAPIKey, secret: key}
}

// AccessTokenCredential authenticates with a bearer token issued out of band.
func AccessTokenCredential(token string) Credential {
	return Credential{kind: credAccessToken, secret: token}
}

// valid reports whether the credential carries a usable secret.
func (c Credential) valid() bool {
	return c.kind != 0 && c.secret != ""
}

// apply sets the request's auth headers according to the variant. API keys
// are sent both ways so OpenAI-style and Azure-style gateways accept them.
func (c Credential) apply(req *http.Request) {
	switch c.kind {
	case credAPIKey:
		req.Header.Set("Authorization", "Bearer "+c.secret)
		req.Header.Set("api-key", c.secret)
	case credAccessToken:
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}
}
