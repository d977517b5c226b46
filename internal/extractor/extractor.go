// Package extractor reads a bounded prefix of a file and decodes it as text.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DefaultMaxBytes bounds how much of a file is read for summarization.
const DefaultMaxBytes = 64 * 1024

// ExtractionError marks a file that could not be read or decoded as text.
// During batch indexing it isolates that file without aborting the run.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor reads bounded text prefixes from files.
type Extractor struct {
	// MaxBytes is the largest prefix read from any file. Zero means
	// DefaultMaxBytes.
	MaxBytes int
}

// New creates an Extractor with the default prefix bound.
func New() *Extractor {
	return &Extractor{MaxBytes: DefaultMaxBytes}
}

// Result is the decoded text prefix of a file.
type Result struct {
	Text      string
	Truncated bool
}

// Extract reads at most MaxBytes from the file at path and decodes it as
// UTF-8 text. Binary content (a NUL byte or invalid UTF-8) yields an
// ExtractionError.
func (e *Extractor) Extract(path string) (*Result, error) {
	maxBytes := e.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	// Read one byte past the bound to detect truncation
	buf := make([]byte, maxBytes+1)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	truncated := n > maxBytes
	data := buf[:n]
	if truncated {
		data = data[:maxBytes]
		// Truncation can split a multi-byte rune; drop the partial tail
		data = trimPartialRune(data)
	}

	if bytes.IndexByte(data, 0) >= 0 {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("binary content (NUL byte)")}
	}
	if !utf8.Valid(data) {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("invalid UTF-8 content")}
	}

	return &Result{Text: string(data), Truncated: truncated}, nil
}

// trimPartialRune removes an incomplete trailing UTF-8 sequence.
func trimPartialRune(data []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(data) > 0; i++ {
		r, size := utf8.DecodeLastRune(data)
		if r != utf8.RuneError || size != 1 {
			return data
		}
		data = data[:len(data)-1]
	}
	return data
}
