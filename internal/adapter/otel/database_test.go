package otel_test

import (
	"testing"

	adapter "github.com/neomorfeo/roomkeeper/internal/adapter/otel"
	"github.com/neomorfeo/roomkeeper/internal/adapter/sqlite"
)

func TestOpenDB_AppliesPragmas(t *testing.T) {
	db, err := adapter.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}

	if _, err := sqlite.NewFromDB(db); err != nil {
		t.Fatalf("migrating instrumented db: %v", err)
	}
}
