// Package scheduler expands routines and schedule instances into concrete
// alarm firing points and computes next occurrences.
package scheduler

import (
	"time"

	"github.com/julianstephens/routines/internal/alarmid"
	"github.com/julianstephens/routines/internal/models"
)

const minutesPerDay = 24 * 60

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Firing pairs an expanded alarm item with the timer primitive that registers it.
type Firing struct {
	Item models.AlarmItem
	Kind models.RegistrationKind
	// At is the absolute instant of a one-time firing.
	At time.Time
	// Weekday is the day a weekly firing physically goes off.
	Weekday time.Weekday
}

// Expand produces one alarm item per routine step. Recurring instances get a
// full copy of the step sequence for every selected weekday, Monday first.
// Disabled instances and routines without steps expand to nothing.
func (s *Scheduler) Expand(inst models.ScheduleInstance, routine models.Routine) []models.AlarmItem {
	if len(routine.Steps) == 0 {
		return nil
	}

	switch inst.State() {
	case models.StateDisabled:
		return nil
	case models.StateOneTime:
		return expandSequence(inst, routine, func(step int) string {
			return alarmid.OneTime(inst.ID, step)
		}, 0, false)
	case models.StateRecurring:
		days := inst.Days.Days()
		items := make([]models.AlarmItem, 0, len(days)*len(routine.Steps))
		for _, day := range days {
			items = append(items, expandSequence(inst, routine, func(step int) string {
				return alarmid.Weekly(inst.ID, step, day)
			}, day, true)...)
		}
		return items
	}
	return nil
}

// Plan expands inst and resolves how each item is registered relative to now.
//
// One-time runs pick their date once, from the first step: today if the start
// time is still ahead of now, otherwise tomorrow. Later steps inherit that
// date and add their offset, so a run that starts at 23:50 keeps its 00:10
// step on the following day. Step dates are not re-checked against now.
func (s *Scheduler) Plan(inst models.ScheduleInstance, routine models.Routine, now time.Time) []Firing {
	items := s.Expand(inst, routine)
	if len(items) == 0 {
		return nil
	}

	firings := make([]Firing, len(items))
	var base time.Time
	if !inst.IsRecurring() {
		base = TodayOrTomorrow(inst.StartTime, now)
	}

	for i, item := range items {
		if item.Repeating {
			firings[i] = Firing{
				Item:    item,
				Kind:    models.RegistrationWeekly,
				Weekday: item.FireWeekday(),
			}
			continue
		}
		firings[i] = Firing{
			Item: item,
			Kind: models.RegistrationOnce,
			At:   base.Add(time.Duration(item.OffsetMin) * time.Minute),
		}
	}
	return firings
}

func expandSequence(inst models.ScheduleInstance, routine models.Routine, idFor func(int) string, day time.Weekday, repeating bool) []models.AlarmItem {
	title := inst.Name
	if title == "" {
		title = routine.Name
	}

	start := inst.StartTime.Minutes()
	items := make([]models.AlarmItem, len(routine.Steps))
	offset := 0
	for i, step := range routine.Steps {
		items[i] = models.AlarmItem{
			ID:         idFor(i),
			InstanceID: inst.ID,
			StepIndex:  i,
			StepName:   step.Name,
			Title:      title,
			Time:       inst.StartTime.AddMinutes(offset),
			OffsetMin:  offset,
			DayOffset:  (start + offset) / minutesPerDay,
			Weekday:    day,
			Enabled:    true,
			Repeating:  repeating,
		}
		if i < len(routine.Steps)-1 {
			offset += step.Duration.TotalMinutes()
		}
	}
	return items
}

// TodayOrTomorrow places t on today's date when t is strictly later than
// now's time of day, and on tomorrow's date otherwise.
func TodayOrTomorrow(t models.TimeOfDay, now time.Time) time.Time {
	target := t.On(now)
	if !t.After(models.TimeOfDayOf(now)) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}
