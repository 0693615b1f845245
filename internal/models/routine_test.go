package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func morningRun() Routine {
	return NewRoutine("Morning run", []Step{
		NewStep("Warm-up", 5),
		NewStep("Run", 20),
		NewStep("Cooldown", 5),
	}, testNow)
}

func TestRoutineTotalDuration(t *testing.T) {
	r := morningRun()
	assert.Equal(t, Duration(30), r.TotalDuration())
	assert.Equal(t, 2, r.TerminalIndex())

	empty := NewRoutine("Empty", nil, testNow)
	assert.Equal(t, Duration(0), empty.TotalDuration())
	assert.Equal(t, -1, empty.TerminalIndex())
}

func TestRoutineUpdateWithDoesNotMutate(t *testing.T) {
	r := morningRun()
	later := testNow.Add(time.Hour)
	name := "Evening run"

	updated := r.UpdateWith(RoutineUpdate{Name: &name}, later)

	assert.Equal(t, "Evening run", updated.Name)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, r.ID, updated.ID)
	assert.Equal(t, r.Steps, updated.Steps)

	assert.Equal(t, "Morning run", r.Name)
	assert.Equal(t, testNow, r.UpdatedAt)

	updated.Steps[0].Name = "changed"
	assert.Equal(t, "Warm-up", r.Steps[0].Name, "steps must not share backing storage")
}

func TestRoutineUpdateWithSteps(t *testing.T) {
	r := morningRun()
	steps := []Step{NewStep("Stretch", 10)}

	updated := r.UpdateWith(RoutineUpdate{Steps: steps}, testNow.Add(time.Minute))

	require.Len(t, updated.Steps, 1)
	assert.Equal(t, "Stretch", updated.Steps[0].Name)
	assert.Equal(t, "Morning run", updated.Name)
}

func TestRoutineDuplicate(t *testing.T) {
	r := morningRun()
	later := testNow.Add(24 * time.Hour)

	dup := r.Duplicate("Morning run (copy)", later)

	assert.NotEqual(t, r.ID, dup.ID)
	assert.Equal(t, "Morning run (copy)", dup.Name)
	assert.Equal(t, later, dup.CreatedAt)
	require.Len(t, dup.Steps, len(r.Steps))

	originalIDs := map[string]bool{}
	for _, s := range r.Steps {
		originalIDs[s.ID] = true
	}
	for i, s := range dup.Steps {
		assert.False(t, originalIDs[s.ID], "step %d reuses an original id", i)
		assert.Equal(t, r.Steps[i].Name, s.Name)
		assert.Equal(t, r.Steps[i].Duration, s.Duration)
	}
}
