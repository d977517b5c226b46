package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageAdd(t *testing.T) {
	u := Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}
	u.Add(Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30})

	assert.Equal(t, 11, u.PromptTokens)
	assert.Equal(t, 22, u.CompletionTokens)
	assert.Equal(t, 33, u.TotalTokens)
}

func TestFileStateTerminal(t *testing.T) {
	assert.True(t, StateSkipped.Terminal())
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateErrored.Terminal())
	assert.False(t, StateDiscovered.Terminal())
	assert.False(t, StateQueued.Terminal())
	assert.False(t, StateProcessing.Terminal())
}
