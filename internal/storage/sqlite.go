package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"semindex/pkg/types"
)

const metaKeyDimension = "embedding_dimension"

// SQLiteStore implements the VectorStore interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite-backed vector store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces a record by id, persisting metadata and summary
// in the files table and the embedding in the vectors table within one
// transaction. An embedding whose dimensionality differs from the established
// one triggers a destructive rebuild of the vector index: all prior vector
// entries are discarded and the new dimensionality becomes canonical.
func (s *SQLiteStore) Upsert(ctx context.Context, record *types.FileRecord) error {
	if err := validateEmbedding(record.Embedding); err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	dim, err := establishedDimension(ctx, tx)
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	switch {
	case dim == 0:
		if err := setMeta(ctx, tx, metaKeyDimension, strconv.Itoa(len(record.Embedding))); err != nil {
			return &StorageError{Op: "upsert", Err: err}
		}
	case dim != len(record.Embedding):
		if err := rebuildVectorIndex(ctx, tx, len(record.Embedding)); err != nil {
			return &StorageError{Op: "upsert", Err: err}
		}
	}

	// Last writer wins when the same path arrives under a new id
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM files WHERE path = ? AND id != ?`, record.Path, record.ID); err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO files (id, path, name, mime_type, size_bytes, created_at, modified_at, summary, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			name = excluded.name,
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			created_at = excluded.created_at,
			modified_at = excluded.modified_at,
			summary = excluded.summary,
			indexed_at = excluded.indexed_at
	`, record.ID, record.Path, record.Name, record.MIMEType, record.SizeBytes,
		record.CreatedAt, record.ModifiedAt, record.Summary, time.Now())
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vectors (file_id, embedding, dimension)
		VALUES (?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			embedding = excluded.embedding,
			dimension = excluded.dimension
	`, record.ID, SerializeVector(record.Embedding), len(record.Embedding))
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}
	return nil
}

// rebuildVectorIndex discards every stored vector and re-establishes the
// index at the given dimensionality.
func rebuildVectorIndex(ctx context.Context, tx *sql.Tx, dimension int) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM vectors`); err != nil {
		return fmt.Errorf("failed to discard vector index: %w", err)
	}
	return setMeta(ctx, tx, metaKeyDimension, strconv.Itoa(dimension))
}

const fileColumns = `id, path, name, mime_type, size_bytes, created_at, modified_at, summary`

// scanRecord reads one files row into a FileRecord (embedding not included).
func scanRecord(row interface{ Scan(...interface{}) error }) (*types.FileRecord, error) {
	var rec types.FileRecord
	var mime sql.NullString
	var createdAt, modifiedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.Path, &rec.Name, &mime, &rec.SizeBytes,
		&createdAt, &modifiedAt, &rec.Summary)
	if err != nil {
		return nil, err
	}
	if mime.Valid {
		rec.MIMEType = mime.String
	}
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if modifiedAt.Valid {
		rec.ModifiedAt = modifiedAt.Time
	}
	return &rec, nil
}

// GetByID returns the record's metadata and summary, or ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*types.FileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByPath returns the record for an absolute path, or ErrNotFound. Used by
// change detection and identity preservation.
func (s *SQLiteStore) GetByPath(ctx context.Context, path string) (*types.FileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE path = ?`, path)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetEmbedding returns the stored vector for an id, or ErrNotFound.
func (s *SQLiteStore) GetEmbedding(ctx context.Context, id string) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT embedding FROM vectors WHERE file_id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return DeserializeVector(blob), nil
}

// ListAll returns every record (metadata + summary) ordered by path.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]*types.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*types.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of records in the primary table.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n)
	return n, err
}

// VectorCount returns the number of stored embeddings.
func (s *SQLiteStore) VectorCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&n)
	return n, err
}

// HasVectorIndex reports whether a dimension-specific vector index has been
// established for this store instance.
func (s *SQLiteStore) HasVectorIndex(ctx context.Context) (bool, error) {
	dim, err := s.dimension(ctx)
	if err != nil {
		return false, err
	}
	return dim > 0, nil
}

// RetrieveByEmbedding returns up to limit candidates ordered by descending
// cosine similarity to the query vector.
func (s *SQLiteStore) RetrieveByEmbedding(ctx context.Context, query []float32, limit int) ([]Candidate, error) {
	return retrieveByEmbedding(ctx, s.db, query, limit)
}

// Stats reports store-level statistics for status surfaces.
func (s *SQLiteStore) Stats(ctx context.Context) (*types.StoreStats, error) {
	stats := &types.StoreStats{}

	var err error
	if stats.TotalDocuments, err = s.Count(ctx); err != nil {
		return nil, err
	}
	if stats.VectorCount, err = s.VectorCount(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDocuments > 0 {
		stats.VectorIndexCoverage = float64(stats.VectorCount) / float64(stats.TotalDocuments)
	}
	if stats.EmbeddingDimension, err = s.dimension(ctx); err != nil {
		return nil, err
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err != nil {
		return nil, err
	}
	stats.DatabaseSizeBytes = pageCount * pageSize

	return stats, nil
}

// dimension returns the established embedding dimension, or 0 when no vector
// index has been created yet.
func (s *SQLiteStore) dimension(ctx context.Context) (int, error) {
	value, err := getMeta(ctx, s.db, metaKeyDimension)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// metaQuerier is satisfied by both *sql.DB and *sql.Tx
type metaQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func getMeta(ctx context.Context, q metaQuerier, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func setMeta(ctx context.Context, q metaQuerier, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// establishedDimension reads the dimension inside an open transaction.
func establishedDimension(ctx context.Context, tx *sql.Tx) (int, error) {
	value, err := getMeta(ctx, tx, metaKeyDimension)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
