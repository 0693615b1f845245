package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routines/internal/alarmid"
	"github.com/julianstephens/routines/internal/models"
)

// Monday 2 March 2026
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func runRoutine() models.Routine {
	return models.Routine{
		ID:   "routine-1",
		Name: "Morning run",
		Steps: []models.Step{
			{ID: "s1", Name: "Warm-up", Duration: 5},
			{ID: "s2", Name: "Run", Duration: 20},
			{ID: "s3", Name: "Cooldown", Duration: 5},
		},
	}
}

func instance(start models.TimeOfDay, days ...time.Weekday) models.ScheduleInstance {
	return models.ScheduleInstance{
		ID:        "inst-1",
		RoutineID: "routine-1",
		Name:      "Before work",
		StartTime: start,
		Days:      models.NewWeekdays(days...),
		Enabled:   true,
	}
}

func TestExpand_RecurringMondayWednesday(t *testing.T) {
	s := New()
	items := s.Expand(instance(models.MustTimeOfDay(7, 0), time.Monday, time.Wednesday), runRoutine())

	require.Len(t, items, 6)

	expected := []struct {
		id   string
		day  time.Weekday
		step int
		time string
	}{
		{"routine_inst-1_step_0_monday", time.Monday, 0, "07:00"},
		{"routine_inst-1_step_1_monday", time.Monday, 1, "07:05"},
		{"routine_inst-1_step_2_monday", time.Monday, 2, "07:25"},
		{"routine_inst-1_step_0_wednesday", time.Wednesday, 0, "07:00"},
		{"routine_inst-1_step_1_wednesday", time.Wednesday, 1, "07:05"},
		{"routine_inst-1_step_2_wednesday", time.Wednesday, 2, "07:25"},
	}

	for i, want := range expected {
		item := items[i]
		assert.Equal(t, want.id, item.ID)
		assert.Equal(t, want.day, item.Weekday)
		assert.Equal(t, want.step, item.StepIndex)
		assert.Equal(t, want.time, item.Time.String())
		assert.True(t, item.Repeating)
		assert.True(t, item.Enabled)
		assert.Equal(t, "Before work", item.Title)
	}
	assert.True(t, items[0].IsFirst())
	assert.Equal(t, "Run", items[1].StepName)
}

func TestExpand_RecurringProducesDaysTimesSteps(t *testing.T) {
	s := New()
	routine := runRoutine()
	days := []time.Weekday{time.Sunday, time.Tuesday, time.Thursday, time.Saturday}
	inst := instance(models.MustTimeOfDay(6, 30), days...)

	items := s.Expand(inst, routine)
	require.Len(t, items, len(days)*len(routine.Steps))

	type key struct {
		step int
		day  time.Weekday
	}
	seen := map[key]bool{}
	for _, item := range items {
		info, err := alarmid.Decode(item.ID)
		require.NoError(t, err)
		assert.Equal(t, inst.ID, info.InstanceID)
		assert.False(t, info.OneTime)
		assert.True(t, inst.Days.Contains(info.Weekday))
		assert.GreaterOrEqual(t, info.StepIndex, 0)
		assert.Less(t, info.StepIndex, len(routine.Steps))

		k := key{info.StepIndex, info.Weekday}
		assert.False(t, seen[k], "duplicate (step, day) pair %v", k)
		seen[k] = true
	}
}

func TestExpand_OneTimeGapsMatchDurations(t *testing.T) {
	s := New()
	routine := models.Routine{
		ID: "r",
		Steps: []models.Step{
			{Name: "a", Duration: 15},
			{Name: "b", Duration: 0},
			{Name: "c", Duration: 45},
			{Name: "d", Duration: 90},
		},
	}
	inst := instance(models.MustTimeOfDay(9, 0))
	now := at(monday, 8, 0)

	firings := s.Plan(inst, routine, now)
	require.Len(t, firings, len(routine.Steps))

	for i, f := range firings {
		assert.Equal(t, models.RegistrationOnce, f.Kind)
		assert.False(t, f.Item.Repeating)
		assert.Equal(t, alarmid.OneTime(inst.ID, i), f.Item.ID)
		if i == 0 {
			continue
		}
		gap := f.At.Sub(firings[i-1].At)
		assert.GreaterOrEqual(t, gap, time.Duration(0))
		assert.Equal(t, routine.Steps[i-1].Duration.Std(), gap)
	}
	assert.Equal(t, at(monday, 9, 0), firings[0].At)
}

func TestExpand_TitleFallsBackToRoutineName(t *testing.T) {
	inst := instance(models.MustTimeOfDay(7, 0))
	inst.Name = ""
	items := New().Expand(inst, runRoutine())
	require.NotEmpty(t, items)
	assert.Equal(t, "Morning run", items[0].Title)
}

func TestExpand_EmptyAndDisabled(t *testing.T) {
	s := New()

	empty := runRoutine()
	empty.Steps = nil
	assert.Empty(t, s.Expand(instance(models.MustTimeOfDay(7, 0), time.Monday), empty))
	assert.Empty(t, s.Expand(instance(models.MustTimeOfDay(7, 0)), empty))

	disabled := instance(models.MustTimeOfDay(7, 0), time.Monday)
	disabled.Enabled = false
	assert.Empty(t, s.Expand(disabled, runRoutine()))
	assert.Empty(t, s.Plan(disabled, runRoutine(), at(monday, 6, 0)))
}

func TestPlan_OneTimeRollsDateOnceAtFirstStep(t *testing.T) {
	s := New()
	inst := instance(models.MustTimeOfDay(23, 50))
	now := at(monday, 23, 55)

	firings := s.Plan(inst, runRoutine(), now)
	require.Len(t, firings, 3)

	tuesday := monday.AddDate(0, 0, 1)
	assert.Equal(t, at(tuesday, 23, 50), firings[0].At)
	assert.Equal(t, at(tuesday, 23, 55), firings[1].At)
	assert.Equal(t, at(tuesday.AddDate(0, 0, 1), 0, 15), firings[2].At)
	assert.Equal(t, "00:15", firings[2].Item.Time.String())
}

func TestPlan_OneTimeStartingLaterToday(t *testing.T) {
	firings := New().Plan(instance(models.MustTimeOfDay(7, 0)), runRoutine(), at(monday, 6, 59))
	require.Len(t, firings, 3)
	assert.Equal(t, at(monday, 7, 0), firings[0].At)
	assert.Equal(t, at(monday, 7, 25), firings[2].At)
}

func TestPlan_OneTimeAtExactlyNowGoesToTomorrow(t *testing.T) {
	firings := New().Plan(instance(models.MustTimeOfDay(7, 0)), runRoutine(), at(monday, 7, 0))
	require.NotEmpty(t, firings)
	assert.Equal(t, at(monday.AddDate(0, 0, 1), 7, 0), firings[0].At)
}

func TestPlan_WeeklyStepsPastMidnightFireNextDay(t *testing.T) {
	inst := instance(models.MustTimeOfDay(23, 50), time.Saturday)
	firings := New().Plan(inst, runRoutine(), at(monday, 12, 0))
	require.Len(t, firings, 3)

	assert.Equal(t, models.RegistrationWeekly, firings[0].Kind)
	assert.Equal(t, time.Saturday, firings[0].Weekday)
	assert.Equal(t, time.Saturday, firings[1].Weekday)
	assert.Equal(t, "23:55", firings[1].Item.Time.String())

	// 23:50 + 25m crosses midnight: fires Sunday but keeps the Saturday id.
	assert.Equal(t, time.Sunday, firings[2].Weekday)
	assert.Equal(t, 1, firings[2].Item.DayOffset)
	assert.Equal(t, "routine_inst-1_step_2_saturday", firings[2].Item.ID)
}

func TestTodayOrTomorrow(t *testing.T) {
	tod := models.MustTimeOfDay(12, 0)
	assert.Equal(t, at(monday, 12, 0), TodayOrTomorrow(tod, at(monday, 11, 59)))
	assert.Equal(t, at(monday.AddDate(0, 0, 1), 12, 0), TodayOrTomorrow(tod, at(monday, 12, 0)))
	assert.Equal(t, at(monday.AddDate(0, 0, 1), 12, 0), TodayOrTomorrow(tod, at(monday, 12, 0).Add(30*time.Second)))
}
