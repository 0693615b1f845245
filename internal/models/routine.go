package models

import (
	"time"

	"github.com/google/uuid"
)

// Step is one named, timed segment of a routine.
type Step struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Duration Duration `json:"duration_min"`
}

// NewStep creates a step with a fresh id.
func NewStep(name string, duration Duration) Step {
	return Step{
		ID:       uuid.New().String(),
		Name:     name,
		Duration: duration,
	}
}

// Routine is an ordered list of steps used as a template by schedule instances.
type Routine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Steps     []Step    `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRoutine creates a routine with a fresh id.
func NewRoutine(name string, steps []Step, now time.Time) Routine {
	return Routine{
		ID:        uuid.New().String(),
		Name:      name,
		Steps:     append([]Step(nil), steps...),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalDuration is the sum of all step durations.
func (r Routine) TotalDuration() Duration {
	var total Duration
	for _, s := range r.Steps {
		total += s.Duration
	}
	return total
}

// TerminalIndex is the index of the last step, or -1 when there are no steps.
func (r Routine) TerminalIndex() int {
	return len(r.Steps) - 1
}

// RoutineUpdate carries optional replacements for UpdateWith. Nil fields keep
// the current value.
type RoutineUpdate struct {
	Name  *string
	Steps []Step
}

// UpdateWith returns an edited copy with UpdatedAt set to now. r is not modified.
func (r Routine) UpdateWith(u RoutineUpdate, now time.Time) Routine {
	updated := r
	updated.Steps = append([]Step(nil), r.Steps...)
	if u.Name != nil {
		updated.Name = *u.Name
	}
	if u.Steps != nil {
		updated.Steps = append([]Step(nil), u.Steps...)
	}
	updated.UpdatedAt = now
	return updated
}

// Duplicate deep-copies the routine under a new name. The copy and all of its
// steps get fresh ids so later edits to either never collide.
func (r Routine) Duplicate(newName string, now time.Time) Routine {
	steps := make([]Step, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = Step{
			ID:       uuid.New().String(),
			Name:     s.Name,
			Duration: s.Duration,
		}
	}
	return Routine{
		ID:        uuid.New().String(),
		Name:      newName,
		Steps:     steps,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
