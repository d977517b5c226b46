package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"semindex/pkg/types"
)

// Default models for OpenAI-compatible endpoints
const (
	DefaultEndpoint   = "https://api.openai.com/v1"
	DefaultChatModel  = "gpt-4o-mini"
	DefaultEmbedModel = "text-embedding-3-small"

	requestTimeout = 30 * time.Second
)

const summarizeSystemPrompt = "You summarize documents. Reply with a short factual summary " +
	"of the provided text, at most %d characters. No preamble, no markdown."

const rerankSystemPrompt = "You rank documents by relevance to a query. Reply with ONLY a JSON " +
	"array of objects {\"id\": string, \"score\": number} where score is 0-100 relevance, " +
	"sorted by descending score, at most %d entries. Use only ids from the provided candidates."

// OpenAIProvider implements SemanticProvider against any OpenAI-compatible
// API (chat completions + embeddings). The handle is safe for concurrent use.
type OpenAIProvider struct {
	endpoint   string
	chatModel  string
	embedModel string
	cred       Credential
	httpClient *http.Client
	cache      *Cache
}

// Config configures an OpenAIProvider.
type Config struct {
	Endpoint   string
	ChatModel  string
	EmbedModel string
	Credential Credential
	CacheSize  int
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
// A missing credential is a fatal precondition (ErrNotConfigured).
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if !cfg.Credential.valid() {
		return nil, ErrNotConfigured
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = DefaultEmbedModel
	}

	var cache *Cache
	if cfg.CacheSize != 0 {
		cache = NewCache(cfg.CacheSize)
	}

	return &OpenAIProvider{
		endpoint:   endpoint,
		chatModel:  chatModel,
		embedModel: embedModel,
		cred:       cfg.Credential,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u apiUsage) toTypes() types.Usage {
	return types.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage apiUsage `json:"usage"`
}

// Summarize calls the chat-completions endpoint with temperature zero.
func (p *OpenAIProvider) Summarize(ctx context.Context, text string, maxChars int) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{Op: "summarize", Err: ErrEmptyText}
	}
	if maxChars <= 0 {
		maxChars = 500
	}

	content, usage, err := p.chat(ctx, fmt.Sprintf(summarizeSystemPrompt, maxChars), text)
	if err != nil {
		return nil, &ProviderError{Op: "summarize", Err: err}
	}

	summary := strings.TrimSpace(content)
	truncated := false
	if len(summary) > maxChars {
		summary = trimPartialRune(summary[:maxChars])
		truncated = true
	}

	return &Summary{Text: summary, Truncated: truncated, Usage: usage}, nil
}

// trimPartialRune drops trailing bytes left by cutting a multi-byte rune in
// half, keeping the result valid UTF-8.
func trimPartialRune(s string) string {
	for i := 0; i < utf8.UTFMax && len(s) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			return s
		}
		s = s[:len(s)-1]
	}
	return s
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage apiUsage `json:"usage"`
}

// Embed calls the embeddings endpoint. Results are cached by content hash;
// a cache hit reports zero usage.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) (*Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{Op: "embed", Err: ErrEmptyText}
	}

	hash := ComputeHash(text)
	if p.cache != nil {
		if vector, ok := p.cache.Get(hash); ok {
			return &Embedding{Vector: vector}, nil
		}
	}

	body, err := json.Marshal(embedRequest{Model: p.embedModel, Input: []string{text}})
	if err != nil {
		return nil, &ProviderError{Op: "embed", Err: err}
	}

	raw, err := p.post(ctx, p.endpoint+"/embeddings", body)
	if err != nil {
		return nil, &ProviderError{Op: "embed", Err: err}
	}

	var resp embedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderError{Op: "embed", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &ProviderError{Op: "embed", Err: fmt.Errorf("no embedding returned")}
	}

	vector := resp.Data[0].Embedding
	if p.cache != nil {
		p.cache.Set(hash, vector)
	}

	return &Embedding{Vector: vector, Usage: resp.Usage.toTypes()}, nil
}

// Rerank asks the chat model for a strict-JSON ranking of the candidates.
// Malformed output is recovered by ParseRanking's fallback, never surfaced
// as an error.
func (p *OpenAIProvider) Rerank(ctx context.Context, query string, candidates []Candidate, topK int) (*Ranking, error) {
	if len(candidates) == 0 {
		return &Ranking{Items: []RankedItem{}}, nil
	}

	payload, err := json.Marshal(struct {
		Query      string      `json:"query"`
		Candidates []Candidate `json:"candidates"`
	}{Query: query, Candidates: candidates})
	if err != nil {
		return nil, &ProviderError{Op: "rerank", Err: err}
	}

	content, usage, err := p.chat(ctx, fmt.Sprintf(rerankSystemPrompt, topK), string(payload))
	if err != nil {
		return nil, &ProviderError{Op: "rerank", Err: err}
	}

	ranking := ParseRanking(content, candidates, topK)
	ranking.Usage = usage
	return ranking, nil
}

// chat performs one chat-completions call and returns the first choice.
func (p *OpenAIProvider) chat(ctx context.Context, system, user string) (string, types.Usage, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", types.Usage{}, err
	}

	raw, err := p.post(ctx, p.endpoint+"/chat/completions", body)
	if err != nil {
		return "", types.Usage{}, err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", types.Usage{}, fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", types.Usage{}, fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, resp.Usage.toTypes(), nil
}

// post issues an authenticated JSON POST and returns the response body.
func (p *OpenAIProvider) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	p.cred.apply(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
