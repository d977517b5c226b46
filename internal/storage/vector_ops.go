package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

// retrieveByEmbedding performs nearest-neighbor retrieval over the vectors
// table, ordered by descending cosine similarity.
func retrieveByEmbedding(ctx context.Context, db *sql.DB, queryVector []float32, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return []Candidate{}, nil
	}
	// Use SQL-layer ranking when sqlite-vec is compiled in
	if VectorExtensionAvailable {
		return retrieveOptimized(ctx, db, queryVector, limit)
	}
	// Fall back to Go-based computation for purego builds
	return retrieveFallback(ctx, db, queryVector, limit)
}

// retrieveOptimized uses the sqlite-vec extension for SQL-based similarity search.
// vec_distance_cosine returns a distance (lower is better); converting with
// similarity = 1 - distance keeps the ordering consistent with the fallback.
func retrieveOptimized(ctx context.Context, db *sql.DB, queryVector []float32, limit int) ([]Candidate, error) {
	queryBlob := SerializeVector(queryVector)

	query := `
		SELECT
			v.file_id,
			1.0 - vec_distance_cosine(v.embedding, ?) AS similarity
		FROM vectors v
		WHERE v.dimension = ?
		ORDER BY similarity DESC
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, queryBlob, len(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute vector search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]Candidate, 0, limit)
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// retrieveFallback scans every stored vector and computes the dot product in
// Go. Stored vectors and the query are unit-normalized, so the dot product is
// the cosine similarity.
func retrieveFallback(ctx context.Context, db *sql.DB, queryVector []float32, limit int) ([]Candidate, error) {
	rows, err := db.QueryContext(ctx, `SELECT file_id, embedding FROM vectors`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]Candidate, 0, 256)
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}

		vector := DeserializeVector(blob)
		if len(vector) != len(queryVector) {
			continue // stale dimension, skip
		}

		candidates = append(candidates, Candidate{
			ID:         id,
			Similarity: dotProduct(queryVector, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	return candidates[:limit], nil
}

// dotProduct computes the inner product of two equal-length vectors.
func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero-norm inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize returns a unit-length copy of v. The norm is floored at 1 so an
// all-zero vector normalizes to itself instead of dividing by zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = float32(float64(val) / norm)
	}
	return result
}

// errInvalidEmbedding values are wrapped into StorageError by Upsert.
var (
	errEmptyEmbedding     = errors.New("embedding is empty")
	errNonFiniteEmbedding = errors.New("embedding contains non-finite values")
)

// validateEmbedding rejects empty vectors and vectors containing NaN or Inf.
func validateEmbedding(v []float32) error {
	if len(v) == 0 {
		return errEmptyEmbedding
	}
	for i, val := range v {
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: index %d", errNonFiniteEmbedding, i)
		}
	}
	return nil
}

// SerializeVector converts a float32 slice to a byte blob (little-endian)
func SerializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// DeserializeVector converts a byte blob back to a float32 slice
func DeserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}
