// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap"

	"fallacyfinder/internal/database"
)

// MigrationsPath returns the repository's migrations directory
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// Open creates a migrated SQLite database in a temporary directory, closed when the test ends.
// It skips the test under -short.
func Open(t testing.TB) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background(), MigrationsPath()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}
