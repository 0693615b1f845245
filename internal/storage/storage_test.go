package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/storage"
	"github.com/julianstephens/routines/internal/storage/postgres"
	"github.com/julianstephens/routines/internal/storage/sqlite"
	"github.com/julianstephens/routines/internal/storage/storagetest"
)

func TestBackendFor(t *testing.T) {
	tests := []struct {
		target string
		want   storage.Backend
	}{
		{"postgres://user@localhost/db", storage.BackendPostgres},
		{"postgresql://user@localhost/db", storage.BackendPostgres},
		{"/home/me/.config/routines/routines.json", storage.BackendJSON},
		{"/home/me/.config/routines/ROUTINES.JSON", storage.BackendJSON},
		{"/home/me/.config/routines/routines.db", storage.BackendSQLite},
		{"routines", storage.BackendSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := storage.BackendFor(tt.target); got != tt.want {
				t.Errorf("BackendFor(%q) = %s, want %s", tt.target, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, ok := storage.New("postgres://user@localhost/db").(*postgres.Store); !ok {
		t.Error("expected postgres store")
	}
	if _, ok := storage.New("routines.json").(*storage.JSONStore); !ok {
		t.Error("expected JSON store")
	}
	if _, ok := storage.New("routines.db").(*sqlite.Store); !ok {
		t.Error("expected sqlite store")
	}
}

func TestJSONStore_Conformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storagetest.Store {
		store := storage.NewJSONStore(filepath.Join(t.TempDir(), "routines.json"))
		if err := store.Init(); err != nil {
			t.Fatalf("failed to init store: %v", err)
		}
		return store
	})
}

func TestJSONStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routines.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	r := models.Routine{ID: "r1", Name: "Morning run", Steps: []models.Step{{ID: "s1", Name: "Run", Duration: 20}}}
	if err := store.AddRoutine(r); err != nil {
		t.Fatalf("AddRoutine failed: %v", err)
	}

	reopened := storage.NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := reopened.GetRoutine("r1")
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != "Morning run" || len(got.Steps) != 1 || got.Steps[0].Duration != 20 {
		t.Errorf("unexpected routine after reload: %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"version": 1`) {
		t.Errorf("expected versioned document, got %s", data)
	}
}

func TestJSONStore_InitKeepsExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routines.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.AddRoutine(models.Routine{ID: "r1", Name: "Keep me"}); err != nil {
		t.Fatalf("AddRoutine failed: %v", err)
	}

	again := storage.NewJSONStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if _, err := again.GetRoutine("r1"); err != nil {
		t.Errorf("expected routine to survive re-init: %v", err)
	}
}

func TestJSONStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		err := storage.NewJSONStore(filepath.Join(dir, "missing.json")).Load()
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Errorf("expected not initialized error, got %v", err)
		}
	})

	t.Run("newer version", func(t *testing.T) {
		path := filepath.Join(dir, "future.json")
		if err := os.WriteFile(path, []byte(`{"version": 99}`), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		err := storage.NewJSONStore(path).Load()
		if err == nil || !strings.Contains(err.Error(), "newer than supported") {
			t.Errorf("expected newer version error, got %v", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		if err := os.WriteFile(path, []byte(`{not json`), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := storage.NewJSONStore(path).Load(); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("not loaded", func(t *testing.T) {
		if _, err := storage.NewJSONStore(filepath.Join(dir, "x.json")).GetSettings(); err == nil {
			t.Error("expected error before Load")
		}
	})
}
