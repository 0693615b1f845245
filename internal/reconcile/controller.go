// Package reconcile keeps registered alarms consistent with stored routines
// and schedule instances by cancelling and recreating them on every change.
package reconcile

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/routines/internal/alarmid"
	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/scheduler"
	"github.com/julianstephens/routines/internal/validation"
)

// Controller drives schedule instances through their transitions. It does not
// lock: callers must not reconcile the same instance from two goroutines.
type Controller struct {
	store     Store
	timer     AlarmTimer
	scheduler *scheduler.Scheduler
	validator *validation.Validator
	notifier  Notifier
	now       func() time.Time
}

type Option func(*Controller)

// WithNotifier sets the collaborator that presents fired alarms.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(store Store, timer AlarmTimer, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		timer:     timer,
		scheduler: scheduler.New(),
		validator: validation.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule runs the create/update transition for inst: cancel every alarm
// that belongs to it, then expand and register the current step sequence.
// Disabled instances are only cancelled. A missing routine cancels what
// exists and skips the rest.
func (c *Controller) Schedule(inst models.ScheduleInstance) Report {
	return c.schedule(inst, c.store.GetRoutine)
}

func (c *Controller) schedule(inst models.ScheduleInstance, lookup func(string) (models.Routine, error)) Report {
	report := Report{InstanceID: inst.ID, State: inst.State()}

	cancelled, err := c.cancelAll(inst.ID)
	report.Cancelled = cancelled
	if err != nil {
		report.Err = err
	}

	if report.State == models.StateDisabled {
		logger.Debug("Schedule disabled, alarms cancelled", "instance", inst.ID, "cancelled", cancelled)
		return report
	}

	routine, err := lookup(inst.RoutineID)
	if err != nil {
		if apperr.IsNotFound(err) {
			logger.Warn("Routine missing, skipping schedule", "instance", inst.ID, "routine", inst.RoutineID)
		} else {
			logger.Error("Failed to load routine", "instance", inst.ID, "routine", inst.RoutineID, "error", err)
		}
		report.Err = stderrors.Join(report.Err, err)
		return report
	}

	firings := c.scheduler.Plan(inst, routine, c.now())
	report.Results = make([]ItemResult, 0, len(firings))
	for _, f := range firings {
		res := ItemResult{Item: f.Item, Kind: f.Kind, At: f.At, Weekday: f.Weekday}
		var regErr error
		if f.Kind == models.RegistrationWeekly {
			regErr = c.timer.RegisterWeekly(f.Item, f.Weekday)
		} else {
			regErr = c.timer.RegisterOnce(f.Item, f.At)
		}
		if regErr != nil {
			logger.Warn("Alarm registration failed", "alarm", f.Item.ID, "error", regErr)
			res.Err = &apperr.RegistrationError{AlarmID: f.Item.ID, Err: regErr}
		}
		report.Results = append(report.Results, res)
	}

	logger.Info("Schedule reconciled",
		"instance", inst.ID,
		"state", report.State.String(),
		"cancelled", report.Cancelled,
		"scheduled", report.Scheduled(),
		"total", report.Total(),
	)
	return report
}

// cancelAll scans every registered alarm and cancels those that decode to
// instanceID. Individual cancel failures do not stop the scan.
func (c *Controller) cancelAll(instanceID string) (int, error) {
	ids, err := c.timer.Registered()
	if err != nil {
		return 0, fmt.Errorf("failed to list registered alarms: %w", err)
	}

	cancelled := 0
	var errs []error
	for _, id := range ids {
		if !alarmid.BelongsTo(id, instanceID) {
			continue
		}
		if err := c.timer.Cancel(id); err != nil {
			errs = append(errs, fmt.Errorf("failed to cancel alarm %s: %w", id, err))
			continue
		}
		cancelled++
	}
	return cancelled, stderrors.Join(errs...)
}

// CreateInstance validates and stores inst, then schedules it. The routine
// must exist.
func (c *Controller) CreateInstance(inst models.ScheduleInstance) (Report, error) {
	if err := c.validator.ValidateInstance(inst); err != nil {
		return Report{}, err
	}
	if _, err := c.store.GetRoutine(inst.RoutineID); err != nil {
		return Report{}, err
	}
	if err := c.store.AddInstance(inst); err != nil {
		return Report{}, fmt.Errorf("failed to save schedule: %w", err)
	}
	return c.Schedule(inst), nil
}

// UpdateInstance replaces a stored instance and reschedules it.
func (c *Controller) UpdateInstance(inst models.ScheduleInstance) (Report, error) {
	if err := c.validator.ValidateInstance(inst); err != nil {
		return Report{}, err
	}
	if _, err := c.store.GetInstance(inst.ID); err != nil {
		return Report{}, err
	}
	if _, err := c.store.GetRoutine(inst.RoutineID); err != nil {
		return Report{}, err
	}
	if err := c.store.UpdateInstance(inst); err != nil {
		return Report{}, fmt.Errorf("failed to save schedule: %w", err)
	}
	return c.Schedule(inst), nil
}

// SetEnabled toggles an instance. Turning it off cancels its alarms; turning
// it on reschedules them.
func (c *Controller) SetEnabled(id string, enabled bool) (Report, error) {
	inst, err := c.store.GetInstance(id)
	if err != nil {
		return Report{}, err
	}
	inst.Enabled = enabled
	if err := c.store.UpdateInstance(inst); err != nil {
		return Report{}, fmt.Errorf("failed to save schedule: %w", err)
	}
	return c.Schedule(inst), nil
}

// DeleteInstance cancels the instance's alarms and removes it. The routine it
// references is left untouched.
func (c *Controller) DeleteInstance(id string) (Report, error) {
	inst, err := c.store.GetInstance(id)
	if err != nil {
		return Report{}, err
	}

	report := Report{InstanceID: id, State: models.StateDisabled}
	report.Cancelled, report.Err = c.cancelAll(inst.ID)

	if err := c.store.DeleteInstance(id); err != nil {
		return report, fmt.Errorf("failed to delete schedule: %w", err)
	}
	logger.Info("Schedule deleted", "instance", id, "cancelled", report.Cancelled)
	return report, nil
}

// CreateRoutine validates and stores r.
func (c *Controller) CreateRoutine(r models.Routine) error {
	if err := c.validator.ValidateRoutine(r); err != nil {
		return err
	}
	if err := c.store.AddRoutine(r); err != nil {
		return fmt.Errorf("failed to save routine: %w", err)
	}
	logger.Info("Routine created", "routine", r.ID, "steps", len(r.Steps))
	return nil
}

// UpdateRoutine applies u to the stored routine and reschedules every
// instance that uses it.
func (c *Controller) UpdateRoutine(id string, u models.RoutineUpdate) (models.Routine, []Report, error) {
	current, err := c.store.GetRoutine(id)
	if err != nil {
		return models.Routine{}, nil, err
	}

	updated := current.UpdateWith(u, c.now())
	if err := c.validator.ValidateRoutine(updated); err != nil {
		return models.Routine{}, nil, err
	}
	if err := c.store.UpdateRoutine(updated); err != nil {
		return models.Routine{}, nil, fmt.Errorf("failed to save routine: %w", err)
	}

	reports, err := c.RoutineEdited(id)
	return updated, reports, err
}

// RoutineEdited reschedules every instance that references routineID.
func (c *Controller) RoutineEdited(routineID string) ([]Report, error) {
	instances, err := c.store.GetInstancesForRoutine(routineID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules for routine %s: %w", routineID, err)
	}

	reports := make([]Report, 0, len(instances))
	for _, inst := range instances {
		reports = append(reports, c.Schedule(inst))
	}
	return reports, nil
}

// DuplicateRoutine stores a deep copy of a routine under newName.
func (c *Controller) DuplicateRoutine(id, newName string) (models.Routine, error) {
	original, err := c.store.GetRoutine(id)
	if err != nil {
		return models.Routine{}, err
	}
	dup := original.Duplicate(newName, c.now())
	if err := c.CreateRoutine(dup); err != nil {
		return models.Routine{}, err
	}
	return dup, nil
}

// DeleteRoutine deletes every instance of the routine, cancelling their
// alarms, and then the routine itself. An instance that disappears midway
// counts as deleted.
func (c *Controller) DeleteRoutine(id string) ([]Report, error) {
	if _, err := c.store.GetRoutine(id); err != nil {
		return nil, err
	}

	instances, err := c.store.GetInstancesForRoutine(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules for routine %s: %w", id, err)
	}

	reports := make([]Report, 0, len(instances))
	for _, inst := range instances {
		report, err := c.DeleteInstance(inst.ID)
		switch {
		case apperr.IsNotFound(err):
			// Already removed; still drop whatever alarms it left behind.
			logger.Debug("Schedule already deleted", "instance", inst.ID)
			if report.InstanceID == "" {
				report = Report{InstanceID: inst.ID, State: models.StateDisabled}
				report.Cancelled, report.Err = c.cancelAll(inst.ID)
			}
		case err != nil:
			return reports, err
		}
		reports = append(reports, report)
	}

	if err := c.store.DeleteRoutine(id); err != nil {
		return reports, fmt.Errorf("failed to delete routine: %w", err)
	}
	logger.Info("Routine deleted", "routine", id, "schedules", len(instances))
	return reports, nil
}

// HandleFired processes an alarm delivered by the timer. The notifier always
// sees the alarm, with decoded info when the id is a routine alarm. When the
// terminal step of an enabled recurring instance fires, the instance is
// rescheduled and its report returned; otherwise the report is nil.
func (c *Controller) HandleFired(alarm models.FiredAlarm) (*Report, error) {
	info, isRoutine := alarmid.Parse(alarm.ID)

	var notifyErr error
	if c.notifier != nil {
		var infoPtr *models.AlarmInfo
		if isRoutine {
			infoPtr = &info
		}
		if err := c.notifier.Notify(alarm, infoPtr); err != nil {
			logger.Warn("Failed to deliver notification", "alarm", alarm.ID, "error", err)
			notifyErr = fmt.Errorf("failed to notify alarm %s: %w", alarm.ID, err)
		}
	}

	if !isRoutine {
		logger.Debug("Fired alarm is not a routine alarm", "alarm", alarm.ID)
		return nil, notifyErr
	}

	inst, err := c.store.GetInstance(info.InstanceID)
	if err != nil {
		if apperr.IsNotFound(err) {
			logger.Debug("Fired alarm belongs to a deleted schedule", "alarm", alarm.ID)
			return nil, notifyErr
		}
		return nil, stderrors.Join(notifyErr, err)
	}

	routine, err := c.store.GetRoutine(inst.RoutineID)
	if err != nil {
		if apperr.IsNotFound(err) {
			logger.Debug("Fired alarm belongs to a deleted routine", "alarm", alarm.ID)
			return nil, notifyErr
		}
		return nil, stderrors.Join(notifyErr, err)
	}

	if !renews(info, inst, routine) {
		return nil, notifyErr
	}

	logger.Info("Terminal step fired, renewing schedule", "instance", inst.ID, "step", info.StepIndex)
	report := c.schedule(inst, func(string) (models.Routine, error) { return routine, nil })
	return &report, notifyErr
}

// renews holds only for the last step of an enabled recurring instance.
func renews(info models.AlarmInfo, inst models.ScheduleInstance, routine models.Routine) bool {
	return info.StepIndex == routine.TerminalIndex() &&
		inst.State() == models.StateRecurring
}

// RestoreAll re-runs the create/update transition for every enabled instance,
// as after a restart. Re-registration is idempotent.
func (c *Controller) RestoreAll(instances []models.ScheduleInstance, routines []models.Routine) []Report {
	byID := make(map[string]models.Routine, len(routines))
	for _, r := range routines {
		byID[r.ID] = r
	}
	lookup := func(id string) (models.Routine, error) {
		r, ok := byID[id]
		if !ok {
			return models.Routine{}, apperr.NotFound("routine", id)
		}
		return r, nil
	}

	reports := make([]Report, 0, len(instances))
	for _, inst := range instances {
		if !inst.Enabled {
			continue
		}
		reports = append(reports, c.schedule(inst, lookup))
	}

	scheduled, total := Merge(reports)
	logger.Info("Restored schedules", "schedules", len(reports), "scheduled", scheduled, "total", total)
	return reports
}

// Restore loads every routine and instance from the store and restores them.
func (c *Controller) Restore() ([]Report, error) {
	routines, err := c.store.GetAllRoutines()
	if err != nil {
		return nil, fmt.Errorf("failed to load routines: %w", err)
	}
	instances, err := c.store.GetAllInstances()
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	return c.RestoreAll(instances, routines), nil
}

// NextFire returns when the instance's first step next goes off.
func (c *Controller) NextFire(inst models.ScheduleInstance) (time.Time, bool, error) {
	routine, err := c.store.GetRoutine(inst.RoutineID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	next, ok := c.scheduler.NextFire(inst, routine, c.now())
	return next, ok, nil
}
