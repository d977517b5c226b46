package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Primary record table: metadata + summary, keyed by opaque id.
-- One row per distinct absolute path.
CREATE TABLE IF NOT EXISTS files (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    mime_type TEXT,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP,
    modified_at TIMESTAMP,
    summary TEXT NOT NULL DEFAULT '',
    indexed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);

-- Vector-indexed structure keyed by the same id. Embeddings are stored as
-- little-endian float32 blobs; dimensionality is fixed per index
-- instantiation (see meta key embedding_dimension).
CREATE TABLE IF NOT EXISTS vectors (
    file_id TEXT PRIMARY KEY,
    embedding BLOB NOT NULL,
    dimension INTEGER NOT NULL,
    FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);

-- Store-level metadata (established embedding dimension, model hints).
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const migrationV1Down = `
DROP TABLE IF EXISTS meta;
DROP TABLE IF EXISTS vectors;
DROP TABLE IF EXISTS files;
DROP TABLE IF EXISTS schema_version;
`

// ApplyMigrations applies all pending migrations to the database
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	return applyMigrations(ctx, db, AllMigrations)
}

// applyMigrations runs every not-yet-applied migration in ascending semantic
// version order, regardless of declaration order.
func applyMigrations(ctx context.Context, db *sql.DB, migrations []Migration) error {
	// Ensure the version table exists before querying it
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	pending := make([]Migration, 0, len(migrations))
	for _, migration := range migrations {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}

	ordered, err := sortByVersion(pending)
	if err != nil {
		return err
	}

	for _, migration := range ordered {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, migration.Up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", migration.Version, err)
		}
	}

	return nil
}

// sortByVersion returns the migrations ordered by ascending semantic version.
// Semver ordering matters here: "10.0.0" sorts after "2.0.0", where a
// lexicographic sort would invert them.
func sortByVersion(migrations []Migration) ([]Migration, error) {
	type versioned struct {
		version   *semver.Version
		migration Migration
	}

	items := make([]versioned, 0, len(migrations))
	for _, migration := range migrations {
		v, err := semver.NewVersion(migration.Version)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version %q: %w", migration.Version, err)
		}
		items = append(items, versioned{version: v, migration: migration})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].version.LessThan(items[j].version)
	})

	ordered := make([]Migration, len(items))
	for i, item := range items {
		ordered[i] = item.migration
	}
	return ordered, nil
}

// appliedVersions returns the set of already-applied migration versions
func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// SchemaVersion returns the highest applied schema version, or "" when the
// database has never been migrated.
func SchemaVersion(ctx context.Context, db *sql.DB) (string, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return "", err
	}

	var highest *semver.Version
	for version := range applied {
		v, err := semver.NewVersion(version)
		if err != nil {
			return "", fmt.Errorf("invalid schema version %q: %w", version, err)
		}
		if highest == nil || v.GreaterThan(highest) {
			highest = v
		}
	}

	if highest == nil {
		return "", nil
	}
	return highest.String(), nil
}
