package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtract_PlainText(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("hello world\nsecond line\n"))

	result, err := New().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\nsecond line\n", result.Text)
	assert.False(t, result.Truncated)
}

func TestExtract_Truncation(t *testing.T) {
	content := strings.Repeat("a", 100)
	path := writeFile(t, "big.txt", []byte(content))

	e := &Extractor{MaxBytes: 64}
	result, err := e.Extract(path)
	require.NoError(t, err)
	assert.True(t, result.Truncated)
	assert.Len(t, result.Text, 64)
}

func TestExtract_ExactBoundNotTruncated(t *testing.T) {
	path := writeFile(t, "exact.txt", []byte(strings.Repeat("a", 64)))

	e := &Extractor{MaxBytes: 64}
	result, err := e.Extract(path)
	require.NoError(t, err)
	assert.False(t, result.Truncated)
	assert.Len(t, result.Text, 64)
}

func TestExtract_TruncationPreservesValidUTF8(t *testing.T) {
	// Multi-byte runes positioned so the bound splits one
	content := strings.Repeat("é", 40) // 2 bytes each
	path := writeFile(t, "utf8.txt", []byte(content))

	e := &Extractor{MaxBytes: 63}
	result, err := e.Extract(path)
	require.NoError(t, err)
	assert.True(t, result.Truncated)
	assert.True(t, strings.HasSuffix(result.Text, "é"))
}

func TestExtract_RejectsNULByte(t *testing.T) {
	path := writeFile(t, "binary.png", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01})

	_, err := New().Extract(path)
	require.Error(t, err)
	var eerr *ExtractionError
	assert.ErrorAs(t, err, &eerr)
	assert.Equal(t, path, eerr.Path)
}

func TestExtract_RejectsInvalidUTF8(t *testing.T) {
	path := writeFile(t, "bad.txt", []byte{0xff, 0xfe, 0xfd})

	_, err := New().Extract(path)
	var eerr *ExtractionError
	assert.ErrorAs(t, err, &eerr)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(filepath.Join(t.TempDir(), "nope.txt"))
	var eerr *ExtractionError
	assert.ErrorAs(t, err, &eerr)
}

func TestExtract_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)

	result, err := New().Extract(path)
	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.False(t, result.Truncated)
}
