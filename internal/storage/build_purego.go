//go:build !sqlite_vec
// +build !sqlite_vec

package storage

// This file is compiled for pure-Go builds (no CGO required).
// Vector similarity falls back to a linear scan computed in Go.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite (pure Go port of SQLite)

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// VectorExtensionAvailable indicates if vector extension is available
	VectorExtensionAvailable = false

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
