package models

import "time"

// AlarmItem is one concrete firing point derived from a schedule instance,
// its routine, a step index and (for recurring schedules) a weekday. Items
// are never edited in place; they are cancelled and recreated.
type AlarmItem struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	StepIndex  int       `json:"step_index"`
	StepName   string    `json:"step_name"`
	Title      string    `json:"title"`
	Time       TimeOfDay `json:"time"`
	// OffsetMin is the number of minutes between the routine start and this step.
	OffsetMin int `json:"offset_min"`
	// DayOffset counts the midnights crossed between the routine start and this step.
	DayOffset int `json:"day_offset"`
	// Weekday is the schedule day the item belongs to. Only meaningful when Repeating.
	Weekday   time.Weekday `json:"weekday"`
	Enabled   bool         `json:"enabled"`
	Repeating bool         `json:"repeating"`
}

// IsFirst marks the step that starts the routine.
func (a AlarmItem) IsFirst() bool {
	return a.StepIndex == 0
}

// FireWeekday is the day the item physically fires, which differs from
// Weekday when earlier steps ran past midnight.
func (a AlarmItem) FireWeekday() time.Weekday {
	return time.Weekday((int(a.Weekday) + a.DayOffset) % 7)
}

// AlarmInfo is the decoded form of a routine alarm id.
type AlarmInfo struct {
	InstanceID string       `json:"instance_id"`
	StepIndex  int          `json:"step_index"`
	Weekday    time.Weekday `json:"weekday"`
	// OneTime is set for ids of non-repeating schedules; Weekday is then unused.
	OneTime bool `json:"one_time"`
}

// RegistrationKind distinguishes the two alarm timer primitives.
type RegistrationKind string

const (
	RegistrationOnce   RegistrationKind = "once"
	RegistrationWeekly RegistrationKind = "weekly"
)

// Registration is an alarm as held by the store-backed alarm timer.
type Registration struct {
	ID   string           `json:"id"`
	Kind RegistrationKind `json:"kind"`
	// FireAt is the absolute instant of a one-time registration.
	FireAt time.Time `json:"fire_at,omitempty"`
	// Weekday and Time describe a weekly registration.
	Weekday   time.Weekday `json:"weekday"`
	Time      TimeOfDay    `json:"time"`
	Title     string       `json:"title"`
	StepName  string       `json:"step_name"`
	StepIndex int          `json:"step_index"`
	CreatedAt time.Time    `json:"created_at"`
}

// SameTarget reports whether two registrations describe the same firing.
func (r Registration) SameTarget(other Registration) bool {
	if r.ID != other.ID || r.Kind != other.Kind {
		return false
	}
	if r.Kind == RegistrationOnce {
		return r.FireAt.Equal(other.FireAt)
	}
	return r.Weekday == other.Weekday && r.Time == other.Time
}

// FiredAlarm is the raw payload of an alarm delivered by the timer.
type FiredAlarm struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	StepName string    `json:"step_name"`
	Time     TimeOfDay `json:"time"`
	FiredAt  time.Time `json:"fired_at"`
}

// Fired converts a registration into the payload delivered when it fires.
func (r Registration) Fired(at time.Time) FiredAlarm {
	return FiredAlarm{
		ID:       r.ID,
		Title:    r.Title,
		StepName: r.StepName,
		Time:     r.Time,
		FiredAt:  at,
	}
}
