package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "routines.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	defer store.Close()

	r := models.Routine{ID: "r1", Name: "Morning run", Steps: []models.Step{{ID: "s1", Name: "Run", Duration: 20}}}
	if err := store.AddRoutine(r); err != nil {
		t.Fatalf("failed to add routine: %v", err)
	}
	return dbPath
}

func routineCount(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM routines").Scan(&count); err != nil {
		t.Fatalf("failed to count routines: %v", err)
	}
	return count
}

func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	at := time.Date(2026, time.March, 2, 6, 30, 0, 0, time.UTC)

	mgr := NewManager(dbPath, WithClock(func() time.Time { return at }))
	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Base(path) != "routines-20260302-0630.db" {
		t.Errorf("unexpected backup name: %s", filepath.Base(path))
	}
	if filepath.Dir(path) != mgr.GetBackupDir() {
		t.Errorf("backup written outside %s", mgr.GetBackupDir())
	}
	if got := routineCount(t, path); got != 1 {
		t.Errorf("expected 1 routine in backup, got %d", got)
	}
}

func TestCreateBackup_UniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)
	at := time.Date(2026, time.March, 2, 6, 30, 15, 0, time.UTC)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return at }))

	want := []string{
		"routines-20260302-0630.db",
		"routines-20260302-063015.db",
		"routines-20260302-063015-1.db",
	}
	for _, name := range want {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
		if filepath.Base(path) != name {
			t.Errorf("expected %s, got %s", name, filepath.Base(path))
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestCreateBackup_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	mgr := NewManager(dbPath, WithRetention(3), WithClock(stepClock(start, time.Hour)))

	for i := 0; i < 5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	if backups[0].Name() != "routines-20260301-0400.db" {
		t.Errorf("expected newest first, got %s", backups[0].Name())
	}
	if backups[2].Name() != "routines-20260301-0200.db" {
		t.Errorf("expected oldest kept to be 02:00, got %s", backups[2].Name())
	}
}

func TestListBackups_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(filepath.Join(dir, "routines.db"))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups before directory exists, got %d", len(backups))
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "routines-garbage.db", "routines-20260302-0630.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 || backups[0].Name() != "routines-20260302-0630.db" {
		t.Errorf("unexpected backups: %+v", backups)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock(time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC), time.Minute)))

	saved, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.AddRoutine(models.Routine{ID: "r2", Name: "Evening"}); err != nil {
		t.Fatalf("AddRoutine failed: %v", err)
	}
	store.Close()
	if got := routineCount(t, dbPath); got != 2 {
		t.Fatalf("expected 2 routines before restore, got %d", got)
	}

	previous, err := mgr.RestoreBackup(saved)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := routineCount(t, dbPath); got != 1 {
		t.Errorf("expected 1 routine after restore, got %d", got)
	}
	if previous == "" {
		t.Fatal("expected a snapshot of the replaced database")
	}
	if got := routineCount(t, previous); got != 2 {
		t.Errorf("expected snapshot to hold 2 routines, got %d", got)
	}
}

func TestRestoreBackup_RejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bogus); err == nil {
		t.Error("expected error for corrupt backup")
	}
	if got := routineCount(t, dbPath); got != 1 {
		t.Errorf("database changed after rejected restore: %d routines", got)
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"routines-20260302-0630.db", true, time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)},
		{"routines-20260302-063015.db", true, time.Date(2026, 3, 2, 6, 30, 15, 0, time.UTC)},
		{"routines-20260302-063015-7.db", true, time.Date(2026, 3, 2, 6, 30, 15, 0, time.UTC)},
		{"routines-20260302.db", false, time.Time{}},
		{"other-20260302-0630.db", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStamp(tt.name)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseStamp(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}
