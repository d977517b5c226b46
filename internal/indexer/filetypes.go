package indexer

import (
	"path/filepath"
	"strings"
)

// textExtensions maps the indexable plain-text extensions to a MIME hint
// recorded on the FileRecord. Anything outside this allow-list is filtered
// during discovery before any file is opened.
var textExtensions = map[string]string{
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".rst":      "text/x-rst",
	".org":      "text/org",
	".log":      "text/plain",
	".json":     "application/json",
	".yaml":     "application/yaml",
	".yml":      "application/yaml",
	".toml":     "application/toml",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".ini":      "text/plain",
	".conf":     "text/plain",
	".xml":      "application/xml",
	".html":     "text/html",
	".htm":      "text/html",
	".tex":      "application/x-tex",
}

// Indexable reports whether the file's extension is on the allow-list.
func Indexable(path string) bool {
	_, ok := textExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// mimeFor returns the MIME hint for a path, or text/plain for extensions
// outside the allow-list (reachable only through single-file indexing, which
// does not filter).
func mimeFor(path string) string {
	if mime, ok := textExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "text/plain"
}
