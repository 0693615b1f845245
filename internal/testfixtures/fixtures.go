package testfixtures

import (
	"time"

	"github.com/julianstephens/routines/internal/models"
)

// RunRoutine returns a three-step routine: Warm-up 5m, Run 20m, Cooldown 5m.
func RunRoutine() models.Routine {
	return models.Routine{
		ID:   "routine-run",
		Name: "Morning run",
		Steps: []models.Step{
			{ID: "step-warmup", Name: "Warm-up", Duration: 5},
			{ID: "step-run", Name: "Run", Duration: 20},
			{ID: "step-cooldown", Name: "Cooldown", Duration: 5},
		},
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
}

// Instance returns an enabled schedule of routineID starting at hour:minute
// on days. No days means a one-time schedule.
func Instance(id, routineID string, hour, minute int, days ...time.Weekday) models.ScheduleInstance {
	return models.ScheduleInstance{
		ID:        id,
		RoutineID: routineID,
		Name:      "Schedule " + id,
		StartTime: models.MustTimeOfDay(hour, minute),
		Days:      models.NewWeekdays(days...),
		Enabled:   true,
		CreatedAt: ReferenceTime(),
	}
}

// Item returns a bare alarm item with the given id.
func Item(id string) models.AlarmItem {
	return models.AlarmItem{ID: id, Title: "Test", StepName: "Step", Time: models.MustTimeOfDay(7, 0), Enabled: true}
}
