package provider

import (
	"encoding/json"
	"strings"
)

// ParseRanking parses the model's rerank output. The expected format is a
// strict JSON array of {"id", "score"} objects, optionally wrapped in a
// markdown code fence. Anything else (unparseable JSON, an empty array,
// entries without ids) degrades to a fallback ranking over the first topK
// candidates with uniform descending-by-input-order scores, tagged with
// FallbackUsed so the path stays observable.
func ParseRanking(raw string, candidates []Candidate, topK int) *Ranking {
	items, ok := parseStrict(raw)
	if !ok {
		return fallbackRanking(candidates, topK)
	}
	return &Ranking{Items: clampScores(items)}
}

// parseStrict attempts the strict-JSON interpretation of the model output.
func parseStrict(raw string) ([]RankedItem, bool) {
	text := stripCodeFence(raw)

	// Tolerate prose around the array, nothing inside it
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	var items []RankedItem
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		if item.ID == "" {
			return nil, false
		}
	}
	return items, true
}

// fallbackRanking assigns scores descending by input order, so the original
// similarity ordering is preserved when the reranker's output is unusable.
func fallbackRanking(candidates []Candidate, topK int) *Ranking {
	if topK <= 0 || topK > len(candidates) {
		topK = len(candidates)
	}
	items := make([]RankedItem, topK)
	for i := 0; i < topK; i++ {
		items[i] = RankedItem{ID: candidates[i].ID, Score: float64(100 - i)}
	}
	return &Ranking{Items: items, FallbackUsed: true}
}

// clampScores bounds provider-assigned scores into [0, 100].
func clampScores(items []RankedItem) []RankedItem {
	for i := range items {
		if items[i].Score < 0 {
			items[i].Score = 0
		}
		if items[i].Score > 100 {
			items[i].Score = 100
		}
	}
	return items
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:] // drop the language tag line
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
