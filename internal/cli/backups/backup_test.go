package backups

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/routines/internal/cli/clitest"
	"github.com/julianstephens/routines/internal/storage/sqlite"
)

func TestCreateAndListCmd(t *testing.T) {
	env := clitest.New(t)

	if err := (&CreateCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "routines-20260302-0600.db") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	env.Out.Reset()
	if err := (&ListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "1 total") || !strings.Contains(out, "2026-03-02 06:00:00") {
		t.Errorf("unexpected list output:\n%s", out)
	}
}

func TestListCmd_Empty(t *testing.T) {
	env := clitest.New(t)
	if err := (&ListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}
}

func TestRestoreCmd(t *testing.T) {
	env := clitest.New(t)

	if err := (&CreateCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	r := env.AddRoutine(t)
	env.Clock.Advance(time.Minute)

	if err := (&RestoreCmd{BackupFile: "routines-20260302-0600.db", Yes: true}).Run(env.Ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Previous database saved as: routines-20260302-0601.db") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	restored := sqlite.NewStore(env.Store.GetConfigPath())
	if err := restored.Load(); err != nil {
		t.Fatalf("failed to load restored database: %v", err)
	}
	defer restored.Close()
	if _, err := restored.GetRoutine(r.ID); err == nil {
		t.Error("routine added after the backup should be gone")
	}
}

func TestRestoreCmd_Declined(t *testing.T) {
	env := clitest.New(t)
	if err := (&CreateCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	env.Answer = false

	if err := (&RestoreCmd{BackupFile: "routines-20260302-0600.db"}).Run(env.Ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}
}

func TestRestoreCmd_MissingFile(t *testing.T) {
	env := clitest.New(t)
	err := (&RestoreCmd{BackupFile: filepath.Join(t.TempDir(), "nope.db"), Yes: true}).Run(env.Ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}
