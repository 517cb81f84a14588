package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB creates a fresh SQLite database in a temporary directory with the
// schema scripts applied and no seed data.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	if err := Initialize(context.Background(), path, Scripts(), SchemaScripts); err != nil {
		t.Fatalf("initializing test database: %v", err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
