// Package clitest builds command contexts over a temporary SQLite database.
package clitest

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/storage/sqlite"
	"github.com/julianstephens/routines/internal/testfixtures"
)

// Sender records every notification instead of presenting it.
type Sender struct {
	mu     sync.Mutex
	Alarms []models.FiredAlarm
}

func (s *Sender) Notify(alarm models.FiredAlarm, _ *models.AlarmInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Alarms = append(s.Alarms, alarm)
	return nil
}

func (s *Sender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Alarms)
}

type Env struct {
	Ctx    *cli.Context
	Store  *sqlite.Store
	Out    *bytes.Buffer
	Clock  *testfixtures.Clock
	Sender *Sender
	// Answer is returned by every confirmation prompt.
	Answer bool
	// Prompts counts confirmation prompts shown.
	Prompts int
}

// New initialises a SQLite store under t.TempDir and wires a context with a
// fixed clock at testfixtures.ReferenceTime.
func New(t *testing.T) *Env {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "routines.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	env := &Env{
		Store:  store,
		Out:    &bytes.Buffer{},
		Clock:  testfixtures.NewClock(testfixtures.ReferenceTime()),
		Sender: &Sender{},
	}
	env.Ctx = cli.NewContext(store,
		cli.WithClock(env.Clock.Now),
		cli.WithOutput(env.Out),
		cli.WithSender(env.Sender),
		cli.WithConfirm(func(string, string) (bool, error) {
			env.Prompts++
			return env.Answer, nil
		}),
	)
	return env
}

// AddRoutine stores testfixtures.RunRoutine and returns it.
func (e *Env) AddRoutine(t *testing.T) models.Routine {
	t.Helper()
	r := testfixtures.RunRoutine()
	if err := e.Ctx.Controller.CreateRoutine(r); err != nil {
		t.Fatalf("failed to add routine: %v", err)
	}
	return r
}

// AddSchedule stores and schedules inst.
func (e *Env) AddSchedule(t *testing.T, inst models.ScheduleInstance) {
	t.Helper()
	if _, err := e.Ctx.Controller.CreateInstance(inst); err != nil {
		t.Fatalf("failed to add schedule: %v", err)
	}
}

// AlarmIDs lists the registered alarm ids.
func (e *Env) AlarmIDs(t *testing.T) []string {
	t.Helper()
	ids, err := e.Ctx.Timer.Registered()
	if err != nil {
		t.Fatalf("failed to list alarms: %v", err)
	}
	return ids
}
