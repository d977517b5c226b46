package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer serves a canned chat-completions reply with fixed usage.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 1, "completion_tokens": 2, "total_tokens": 3},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSummarize_TruncatesAtRuneBoundary(t *testing.T) {
	// Ten two-byte runes; a byte cut at 5 would land mid-rune
	srv := chatServer(t, "éééééééééé")

	p, err := NewOpenAIProvider(Config{
		Endpoint:   srv.URL,
		Credential: APIKeyCredential("k"),
	})
	require.NoError(t, err)

	summary, err := p.Summarize(context.Background(), "some text", 5)
	require.NoError(t, err)
	assert.Equal(t, "éé", summary.Text)
	assert.True(t, summary.Truncated)
	assert.True(t, utf8.ValidString(summary.Text))
}

func TestSummarize_NoTruncationWithinBudget(t *testing.T) {
	srv := chatServer(t, "short summary")

	p, err := NewOpenAIProvider(Config{
		Endpoint:   srv.URL,
		Credential: APIKeyCredential("k"),
	})
	require.NoError(t, err)

	summary, err := p.Summarize(context.Background(), "some text", 100)
	require.NoError(t, err)
	assert.Equal(t, "short summary", summary.Text)
	assert.False(t, summary.Truncated)
	assert.Equal(t, 3, summary.Usage.TotalTokens)
}

func TestTrimPartialRune(t *testing.T) {
	assert.Equal(t, "ab", trimPartialRune("ab"))
	assert.Equal(t, "é", trimPartialRune("é"[:2]))
	assert.Equal(t, "a", trimPartialRune("aé"[:2]))
	// A lone continuation byte trims to empty
	assert.Equal(t, "", trimPartialRune("é"[1:2]))
	assert.Equal(t, "", trimPartialRune(""))
}

func TestEmbed_CacheHitSkipsAPI(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"data":  []map[string]any{{"embedding": []float32{1, 0, 0}, "index": 0}},
			"usage": map[string]int{"prompt_tokens": 4, "total_tokens": 4},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(Config{
		Endpoint:   srv.URL,
		Credential: APIKeyCredential("k"),
		CacheSize:  8,
	})
	require.NoError(t, err)

	first, err := p.Embed(context.Background(), "same text")
	require.NoError(t, err)
	assert.Equal(t, 4, first.Usage.TotalTokens)

	second, err := p.Embed(context.Background(), "same text")
	require.NoError(t, err)
	assert.Equal(t, first.Vector, second.Vector)
	// Hits report zero usage
	assert.Equal(t, 0, second.Usage.TotalTokens)
	assert.Equal(t, int32(1), calls.Load())
}
