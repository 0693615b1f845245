package scheduler

import (
	"time"

	"github.com/julianstephens/routines/internal/models"
)

// NextFire returns when inst will next fire its first step. It is a display
// helper and plays no part in alarm registration.
func (s *Scheduler) NextFire(inst models.ScheduleInstance, routine models.Routine, now time.Time) (time.Time, bool) {
	if len(routine.Steps) == 0 {
		return time.Time{}, false
	}

	switch inst.State() {
	case models.StateOneTime:
		return TodayOrTomorrow(inst.StartTime, now), true
	case models.StateRecurring:
		return NextWeekly(inst.Days, inst.StartTime, now), true
	default:
		return time.Time{}, false
	}
}

// NextWeekly returns the next instant at t on one of days. Today counts only
// when t is still ahead of now; otherwise the nearest following selected day
// wins, wrapping into next week. days must not be empty.
func NextWeekly(days models.Weekdays, t models.TimeOfDay, now time.Time) time.Time {
	today := now.Weekday()
	if days.Contains(today) && t.After(models.TimeOfDayOf(now)) {
		return t.On(now)
	}

	for ahead := 1; ahead <= 7; ahead++ {
		if days.Contains(time.Weekday((int(today) + ahead) % 7)) {
			return t.On(now.AddDate(0, 0, ahead))
		}
	}
	return time.Time{}
}

// PreviousWeekly returns the most recent instant at t on day that is not
// after now.
func PreviousWeekly(day time.Weekday, t models.TimeOfDay, now time.Time) time.Time {
	back := (int(now.Weekday()) - int(day) + 7) % 7
	candidate := t.On(now.AddDate(0, 0, -back))
	if candidate.After(now) {
		candidate = candidate.AddDate(0, 0, -7)
	}
	return candidate
}

// FormatNext renders a next-fire time relative to now, e.g. "today 07:00",
// "tomorrow 07:00" or "Wed Mar 4 07:00". ok=false renders as "-".
func FormatNext(next time.Time, ok bool, now time.Time) string {
	if !ok {
		return "-"
	}
	switch {
	case sameDay(next, now):
		return "today " + next.Format("15:04")
	case sameDay(next, now.AddDate(0, 0, 1)):
		return "tomorrow " + next.Format("15:04")
	default:
		return next.Format("Mon Jan 2 15:04")
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
