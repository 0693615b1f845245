package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScheduleState is the explicit form of a schedule instance's scheduling mode.
type ScheduleState int

const (
	StateDisabled ScheduleState = iota
	StateOneTime
	StateRecurring
)

func (s ScheduleState) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateOneTime:
		return "one-time"
	case StateRecurring:
		return "recurring"
	default:
		return fmt.Sprintf("ScheduleState(%d)", int(s))
	}
}

// ScheduleInstance binds a routine to a start time and a set of weekdays.
// An empty Days set means a single one-time run.
type ScheduleInstance struct {
	ID        string    `json:"id"`
	RoutineID string    `json:"routine_id"`
	Name      string    `json:"name"`
	StartTime TimeOfDay `json:"start_time"`
	Days      Weekdays  `json:"days"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// NewScheduleInstance creates an enabled instance with a fresh id.
func NewScheduleInstance(routineID, name string, start TimeOfDay, days Weekdays, now time.Time) ScheduleInstance {
	return ScheduleInstance{
		ID:        uuid.New().String(),
		RoutineID: routineID,
		Name:      name,
		StartTime: start,
		Days:      days,
		Enabled:   true,
		CreatedAt: now,
	}
}

// State derives the scheduling mode from Enabled and Days.
func (i ScheduleInstance) State() ScheduleState {
	switch {
	case !i.Enabled:
		return StateDisabled
	case i.Days.IsEmpty():
		return StateOneTime
	default:
		return StateRecurring
	}
}

// IsRecurring reports whether the instance repeats weekly.
func (i ScheduleInstance) IsRecurring() bool {
	return !i.Days.IsEmpty()
}

// ScheduleString formats e.g. "07:00 • Mon, Wed". One-time instances read "Once".
func (i ScheduleInstance) ScheduleString() string {
	if i.Days.IsEmpty() {
		return fmt.Sprintf("%s • Once", i.StartTime)
	}
	return fmt.Sprintf("%s • %s", i.StartTime, i.Days)
}
