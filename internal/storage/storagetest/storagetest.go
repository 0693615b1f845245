// Package storagetest holds a conformance suite shared by every storage
// backend.
package storagetest

import (
	"testing"
	"time"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

// Store is the surface exercised by Run.
type Store interface {
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	AddRoutine(models.Routine) error
	GetRoutine(id string) (models.Routine, error)
	GetAllRoutines() ([]models.Routine, error)
	UpdateRoutine(models.Routine) error
	DeleteRoutine(id string) error

	AddInstance(models.ScheduleInstance) error
	GetInstance(id string) (models.ScheduleInstance, error)
	GetAllInstances() ([]models.ScheduleInstance, error)
	GetInstancesForRoutine(routineID string) ([]models.ScheduleInstance, error)
	UpdateInstance(models.ScheduleInstance) error
	DeleteInstance(id string) error
	DeleteInstancesForRoutine(routineID string) error

	SaveAlarm(models.Registration) error
	GetAlarm(id string) (models.Registration, error)
	GetAllAlarms() ([]models.Registration, error)
	DeleteAlarm(id string) error
}

var created = time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC)

func routine(id, name string) models.Routine {
	return models.Routine{
		ID:   id,
		Name: name,
		Steps: []models.Step{
			{ID: id + "-s1", Name: "Warm-up", Duration: 5},
			{ID: id + "-s2", Name: "Run", Duration: 20},
			{ID: id + "-s3", Name: "Cooldown", Duration: 5},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func instance(id, routineID string, days ...time.Weekday) models.ScheduleInstance {
	return models.ScheduleInstance{
		ID:        id,
		RoutineID: routineID,
		Name:      "Schedule " + id,
		StartTime: models.MustTimeOfDay(7, 0),
		Days:      models.NewWeekdays(days...),
		Enabled:   true,
		CreatedAt: created,
	}
}

// Run exercises open's store. open must return an initialised, empty store.
func Run(t *testing.T, open func(t *testing.T) Store) {
	t.Run("settings", func(t *testing.T) { testSettings(t, open(t)) })
	t.Run("routines", func(t *testing.T) { testRoutines(t, open(t)) })
	t.Run("instances", func(t *testing.T) { testInstances(t, open(t)) })
	t.Run("alarms", func(t *testing.T) { testAlarms(t, open(t)) })
}

func testSettings(t *testing.T, s Store) {
	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if !settings.NotificationsEnabled {
		t.Error("expected notifications enabled by default")
	}
	if !settings.LastTick.IsZero() {
		t.Errorf("expected zero last tick, got %v", settings.LastTick)
	}

	tick := created.Add(90 * time.Second)
	if err := s.SaveSettings(models.Settings{NotificationsEnabled: false, LastTick: tick}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	settings, err = s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.NotificationsEnabled {
		t.Error("expected notifications disabled")
	}
	if !settings.LastTick.Equal(tick) {
		t.Errorf("expected last tick %v, got %v", tick, settings.LastTick)
	}
}

func testRoutines(t *testing.T, s Store) {
	r := routine("r1", "Morning run")
	if err := s.AddRoutine(r); err != nil {
		t.Fatalf("AddRoutine failed: %v", err)
	}
	if err := s.AddRoutine(routine("r2", "Evening stretch")); err != nil {
		t.Fatalf("AddRoutine failed: %v", err)
	}

	got, err := s.GetRoutine("r1")
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != r.Name || len(got.Steps) != 3 {
		t.Fatalf("unexpected routine: %+v", got)
	}
	for i, step := range got.Steps {
		if step != r.Steps[i] {
			t.Errorf("step %d: expected %+v, got %+v", i, r.Steps[i], step)
		}
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, got.CreatedAt)
	}

	all, err := s.GetAllRoutines()
	if err != nil {
		t.Fatalf("GetAllRoutines failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 routines, got %d", len(all))
	}

	r.Name = "Long run"
	r.Steps = []models.Step{{ID: "r1-s9", Name: "Run", Duration: 45}}
	r.UpdatedAt = created.Add(time.Hour)
	if err := s.UpdateRoutine(r); err != nil {
		t.Fatalf("UpdateRoutine failed: %v", err)
	}
	got, err = s.GetRoutine("r1")
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != "Long run" || len(got.Steps) != 1 || got.Steps[0].Duration != 45 {
		t.Errorf("update not persisted: %+v", got)
	}
	if !got.UpdatedAt.Equal(r.UpdatedAt) {
		t.Errorf("expected updated_at %v, got %v", r.UpdatedAt, got.UpdatedAt)
	}

	if err := s.UpdateRoutine(routine("missing", "x")); !apperr.IsNotFound(err) {
		t.Errorf("expected not found updating missing routine, got %v", err)
	}

	if err := s.DeleteRoutine("r1"); err != nil {
		t.Fatalf("DeleteRoutine failed: %v", err)
	}
	if _, err := s.GetRoutine("r1"); !apperr.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteRoutine("r1"); !apperr.IsNotFound(err) {
		t.Errorf("expected not found deleting twice, got %v", err)
	}
}

func testInstances(t *testing.T, s Store) {
	if err := s.AddRoutine(routine("r1", "Morning run")); err != nil {
		t.Fatalf("AddRoutine failed: %v", err)
	}

	weekly := instance("i1", "r1", time.Monday, time.Wednesday)
	once := instance("i2", "r1")
	other := instance("i3", "r2", time.Sunday)
	for _, inst := range []models.ScheduleInstance{weekly, once, other} {
		if err := s.AddInstance(inst); err != nil {
			t.Fatalf("AddInstance(%s) failed: %v", inst.ID, err)
		}
	}

	got, err := s.GetInstance("i1")
	if err != nil {
		t.Fatalf("GetInstance failed: %v", err)
	}
	if got.Days != weekly.Days || got.StartTime != weekly.StartTime || !got.Enabled || got.Name != weekly.Name {
		t.Errorf("unexpected instance: %+v", got)
	}

	forRoutine, err := s.GetInstancesForRoutine("r1")
	if err != nil {
		t.Fatalf("GetInstancesForRoutine failed: %v", err)
	}
	if len(forRoutine) != 2 {
		t.Errorf("expected 2 instances for r1, got %d", len(forRoutine))
	}

	weekly.Enabled = false
	weekly.StartTime = models.MustTimeOfDay(23, 50)
	weekly.Days = models.NewWeekdays(time.Saturday)
	if err := s.UpdateInstance(weekly); err != nil {
		t.Fatalf("UpdateInstance failed: %v", err)
	}
	got, err = s.GetInstance("i1")
	if err != nil {
		t.Fatalf("GetInstance failed: %v", err)
	}
	if got.Enabled || got.StartTime.String() != "23:50" || !got.Days.Contains(time.Saturday) || got.Days.Len() != 1 {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := s.UpdateInstance(instance("missing", "r1")); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := s.DeleteInstance("i2"); err != nil {
		t.Fatalf("DeleteInstance failed: %v", err)
	}
	if _, err := s.GetInstance("i2"); !apperr.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	if err := s.DeleteInstancesForRoutine("r1"); err != nil {
		t.Fatalf("DeleteInstancesForRoutine failed: %v", err)
	}
	all, err := s.GetAllInstances()
	if err != nil {
		t.Fatalf("GetAllInstances failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != "i3" {
		t.Errorf("expected only i3 to remain, got %+v", all)
	}
}

func testAlarms(t *testing.T, s Store) {
	fireAt := created.Add(time.Hour)
	once := models.Registration{
		ID: "routine_i1_step_0_onetime", Kind: models.RegistrationOnce, FireAt: fireAt,
		Time: models.MustTimeOfDay(7, 0), Title: "Morning run", StepName: "Warm-up", CreatedAt: created,
	}
	weekly := models.Registration{
		ID: "routine_i2_step_2_monday", Kind: models.RegistrationWeekly, Weekday: time.Tuesday,
		Time: models.MustTimeOfDay(0, 15), Title: "Late", StepName: "Cooldown", StepIndex: 2, CreatedAt: created,
	}

	for _, reg := range []models.Registration{once, weekly} {
		if err := s.SaveAlarm(reg); err != nil {
			t.Fatalf("SaveAlarm(%s) failed: %v", reg.ID, err)
		}
	}

	got, err := s.GetAlarm(once.ID)
	if err != nil {
		t.Fatalf("GetAlarm failed: %v", err)
	}
	if !got.SameTarget(once) || got.Title != once.Title || got.StepName != once.StepName {
		t.Errorf("unexpected alarm: %+v", got)
	}

	got, err = s.GetAlarm(weekly.ID)
	if err != nil {
		t.Fatalf("GetAlarm failed: %v", err)
	}
	if !got.SameTarget(weekly) || got.StepIndex != 2 {
		t.Errorf("unexpected alarm: %+v", got)
	}

	weekly.Time = models.MustTimeOfDay(1, 0)
	if err := s.SaveAlarm(weekly); err != nil {
		t.Fatalf("SaveAlarm upsert failed: %v", err)
	}
	all, err := s.GetAllAlarms()
	if err != nil {
		t.Fatalf("GetAllAlarms failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected upsert to keep 2 alarms, got %d", len(all))
	}

	if err := s.DeleteAlarm(once.ID); err != nil {
		t.Fatalf("DeleteAlarm failed: %v", err)
	}
	if _, err := s.GetAlarm(once.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteAlarm(once.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected not found deleting twice, got %v", err)
	}
}
