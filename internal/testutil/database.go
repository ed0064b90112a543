// Package testutil provides shared fixtures for tests that need a database
// or a running compatibility service.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/lovetype/internal/storage"
)

// SetupTestDB opens a migrated database in a temp dir and closes it when the
// test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "lovetype.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("Failed to close store: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return store
}
