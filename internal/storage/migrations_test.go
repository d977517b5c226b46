package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBareDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyMigrations_SemverOrder(t *testing.T) {
	db := openBareDB(t)
	ctx := context.Background()

	// Declared out of order, and with a version where lexicographic ordering
	// ("10.0.0" < "2.0.0") would apply the inserts before the CREATE TABLE
	migrations := []Migration{
		{Version: "2.0.0", Up: `INSERT INTO migration_order (n) VALUES (2);`},
		{Version: "10.0.0", Up: `INSERT INTO migration_order (n) VALUES (10);`},
		{Version: "1.0.0", Up: `CREATE TABLE migration_order (n INTEGER); INSERT INTO migration_order (n) VALUES (1);`},
	}

	require.NoError(t, applyMigrations(ctx, db, migrations))

	rows, err := db.QueryContext(ctx, `SELECT n FROM migration_order ORDER BY rowid`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var order []int
	for rows.Next() {
		var n int
		require.NoError(t, rows.Scan(&n))
		order = append(order, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2, 10}, order)

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0", version)
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := openBareDB(t)
	ctx := context.Background()

	migrations := []Migration{
		{Version: "1.0.0", Up: `CREATE TABLE once_only (n INTEGER);`},
	}

	require.NoError(t, applyMigrations(ctx, db, migrations))
	// A second run must not re-apply (CREATE TABLE would fail)
	require.NoError(t, applyMigrations(ctx, db, migrations))

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)
}

func TestApplyMigrations_RejectsInvalidVersion(t *testing.T) {
	db := openBareDB(t)

	err := applyMigrations(context.Background(), db, []Migration{
		{Version: "not-a-version", Up: `CREATE TABLE x (n INTEGER);`},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration version")
}

func TestSchemaVersion_FreshDatabase(t *testing.T) {
	db := openBareDB(t)
	ctx := context.Background()

	require.NoError(t, applyMigrations(ctx, db, nil))

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "", version)
}
