package db

import (
	"log/slog"
	"testing"
)

// setupTestDB sets up an in-memory test database connection. The shared
// cache keeps the database alive across the connection pool; it is
// destroyed when the last connection closes at cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDB, err := NewConnection("file::memory:?cache=shared", nil)
	if err != nil {
		t.Fatalf("in-memory test database opening error: %v", err)
	}
	testDB.SetLogLevel(slog.LevelWarn)

	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Fatalf("unexpected db close error: %v", err)
		}
	})
	return testDB
}
