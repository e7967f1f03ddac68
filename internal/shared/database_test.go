package shared

import (
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("opens with the cache pragmas applied", func(t *testing.T) {
		db, err := NewDatabase(filepath.Join(t.TempDir(), "cache.db"))
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		var fk int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("failed to read pragma: %v", err)
		}
		if fk != 1 {
			t.Errorf("expected foreign keys on, got %d", fk)
		}

		var mode string
		if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("failed to read pragma: %v", err)
		}
		if mode != "wal" {
			t.Errorf("expected wal journaling, got %q", mode)
		}
	})

	t.Run("in-memory database for tests", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		var one int
		if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
			t.Fatalf("failed to query: %v", err)
		}
	})

	t.Run("ConfigureDatabase caps the pool", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		ConfigureDatabase(db, 3, 1)
		if got := db.Stats().MaxOpenConnections; got != 3 {
			t.Errorf("expected max open conns 3, got %d", got)
		}
	})
}
