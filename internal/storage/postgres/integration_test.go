package postgres_test

import (
	"os"
	"testing"

	"github.com/julianstephens/routines/internal/storage/postgres"
	"github.com/julianstephens/routines/internal/storage/storagetest"
)

// Set ROUTINES_TEST_POSTGRES to run against a real database, e.g.
// ROUTINES_TEST_POSTGRES="postgres://routines@localhost:5432/routines_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("ROUTINES_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("ROUTINES_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	storagetest.Run(t, func(t *testing.T) storagetest.Store {
		store := postgres.New(connStr)
		if err := store.Init(); err != nil {
			t.Fatalf("failed to init store: %v", err)
		}
		t.Cleanup(func() { store.Close() })

		if _, err := store.GetDB().Exec(`TRUNCATE alarms, instances, routine_steps, routines, settings`); err != nil {
			t.Fatalf("failed to reset tables: %v", err)
		}
		// A second Init restores the default settings.
		if err := store.Init(); err != nil {
			t.Fatalf("failed to re-init store: %v", err)
		}
		return store
	})
}
