// Package timer implements the alarm timer on top of the routines store.
// Alarms are persisted registrations; a periodic tick delivers the ones that
// came due since the previous tick.
package timer

import (
	"fmt"
	"sort"
	"time"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/scheduler"
)

// AlarmStore persists alarm registrations keyed by id.
type AlarmStore interface {
	// SaveAlarm inserts or replaces the registration with the same id.
	SaveAlarm(models.Registration) error
	GetAlarm(id string) (models.Registration, error)
	GetAllAlarms() ([]models.Registration, error)
	DeleteAlarm(id string) error
}

type Timer struct {
	store AlarmStore
	now   func() time.Time
}

type Option func(*Timer)

// WithClock overrides the clock used to stamp new registrations.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

func New(store AlarmStore, opts ...Option) *Timer {
	t := &Timer{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RegisterOnce stores a one-time alarm for at.
func (t *Timer) RegisterOnce(item models.AlarmItem, at time.Time) error {
	reg := t.registration(item, models.RegistrationOnce)
	reg.FireAt = at
	return t.upsert(reg)
}

// RegisterWeekly stores a weekly alarm for day at item.Time.
func (t *Timer) RegisterWeekly(item models.AlarmItem, day time.Weekday) error {
	reg := t.registration(item, models.RegistrationWeekly)
	reg.Weekday = day
	return t.upsert(reg)
}

func (t *Timer) registration(item models.AlarmItem, kind models.RegistrationKind) models.Registration {
	return models.Registration{
		ID:        item.ID,
		Kind:      kind,
		Time:      item.Time,
		Title:     item.Title,
		StepName:  item.StepName,
		StepIndex: item.StepIndex,
		CreatedAt: t.now(),
	}
}

// upsert leaves an existing registration with the same target and text
// untouched, so repeated registration is a no-op.
func (t *Timer) upsert(reg models.Registration) error {
	existing, err := t.store.GetAlarm(reg.ID)
	switch {
	case err == nil:
		if existing.SameTarget(reg) && existing.Title == reg.Title && existing.StepName == reg.StepName {
			logger.Debug("Alarm already registered", "alarm", reg.ID)
			return nil
		}
	case !apperr.IsNotFound(err):
		return fmt.Errorf("failed to read alarm %s: %w", reg.ID, err)
	}

	if err := t.store.SaveAlarm(reg); err != nil {
		return fmt.Errorf("failed to save alarm %s: %w", reg.ID, err)
	}
	logger.Debug("Alarm registered", "alarm", reg.ID, "kind", string(reg.Kind))
	return nil
}

// Cancel removes the alarm. Cancelling an unknown id is not an error.
func (t *Timer) Cancel(id string) error {
	if err := t.store.DeleteAlarm(id); err != nil && !apperr.IsNotFound(err) {
		return fmt.Errorf("failed to cancel alarm %s: %w", id, err)
	}
	return nil
}

// Registered lists every held alarm id.
func (t *Timer) Registered() ([]string, error) {
	regs, err := t.store.GetAllAlarms()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(regs))
	for i, reg := range regs {
		ids[i] = reg.ID
	}
	return ids, nil
}

// List returns every registration ordered by id.
func (t *Timer) List() ([]models.Registration, error) {
	regs, err := t.store.GetAllAlarms()
	if err != nil {
		return nil, err
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

// DueAlarm is a registration together with the occurrence that came due.
type DueAlarm struct {
	Registration models.Registration
	At           time.Time
}

// Due returns the alarms with an occurrence in (since, now], oldest first.
// A weekly alarm contributes at most its latest occurrence. Occurrences at or
// before a registration's CreatedAt are never due: an alarm only targets
// slots that were still ahead when it was registered.
func (t *Timer) Due(since, now time.Time) ([]DueAlarm, error) {
	regs, err := t.store.GetAllAlarms()
	if err != nil {
		return nil, fmt.Errorf("failed to load alarms: %w", err)
	}

	var due []DueAlarm
	for _, reg := range regs {
		var at time.Time
		switch reg.Kind {
		case models.RegistrationOnce:
			at = reg.FireAt
		case models.RegistrationWeekly:
			at = scheduler.PreviousWeekly(reg.Weekday, reg.Time, now)
		default:
			logger.Warn("Skipping alarm with unknown kind", "alarm", reg.ID, "kind", string(reg.Kind))
			continue
		}
		if !at.After(reg.CreatedAt) {
			continue
		}
		if at.After(since) && !at.After(now) {
			due = append(due, DueAlarm{Registration: reg, At: at})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].At.Equal(due[j].At) {
			return due[i].Registration.ID < due[j].Registration.ID
		}
		return due[i].At.Before(due[j].At)
	})
	return due, nil
}

// Acknowledge retires a delivered one-time alarm. Weekly alarms stay.
func (t *Timer) Acknowledge(d DueAlarm) error {
	if d.Registration.Kind != models.RegistrationOnce {
		return nil
	}
	return t.Cancel(d.Registration.ID)
}

// Fire delivers a single alarm by id immediately, as if it had just gone off.
func (t *Timer) Fire(id string, at time.Time) (models.FiredAlarm, error) {
	reg, err := t.store.GetAlarm(id)
	if err != nil {
		return models.FiredAlarm{}, err
	}
	if err := t.Acknowledge(DueAlarm{Registration: reg, At: at}); err != nil {
		return models.FiredAlarm{}, err
	}
	return reg.Fired(at), nil
}

// Tick delivers every alarm due in (since, now] to handle and acknowledges
// it. Handler errors are logged and counted but do not stop delivery.
func (t *Timer) Tick(since, now time.Time, handle func(models.FiredAlarm) error) (delivered int, err error) {
	due, err := t.Due(since, now)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, d := range due {
		if err := handle(d.Registration.Fired(d.At)); err != nil {
			logger.Warn("Alarm handler failed", "alarm", d.Registration.ID, "error", err)
			failed++
		}
		if err := t.Acknowledge(d); err != nil {
			return delivered, err
		}
		delivered++
	}

	if failed > 0 {
		return delivered, fmt.Errorf("%d of %d alarms failed to deliver", failed, len(due))
	}
	return delivered, nil
}
