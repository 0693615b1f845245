package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/routines/internal/constants"
)

const minutesPerDay = 24 * 60

// Duration is a non-negative whole number of minutes. Build it with
// NewDuration or ParseDuration; a plain conversion skips the sign check.
type Duration int

// NewDuration returns a Duration of the given minutes. Negative values are rejected.
func NewDuration(minutes int) (Duration, error) {
	if minutes < 0 {
		return 0, fmt.Errorf("duration cannot be negative: %d minutes", minutes)
	}
	return Duration(minutes), nil
}

// DurationFromHoursMinutes builds a Duration from hours and minutes.
func DurationFromHoursMinutes(hours, minutes int) (Duration, error) {
	if hours < 0 || minutes < 0 {
		return 0, fmt.Errorf("duration cannot be negative: %dh %dm", hours, minutes)
	}
	return Duration(hours*60 + minutes), nil
}

// ParseDuration accepts Go duration syntax ("5m", "1h30m") or a bare minute count ("20").
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if minutes, err := strconv.Atoi(s); err == nil {
		return NewDuration(minutes)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d%time.Minute != 0 {
		return 0, fmt.Errorf("invalid duration %q: must be a whole number of minutes", s)
	}
	return NewDuration(int(d / time.Minute))
}

// UnmarshalJSON decodes a minute count, rejecting negative values.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var minutes int
	if err := json.Unmarshal(b, &minutes); err != nil {
		return err
	}
	v, err := NewDuration(minutes)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TotalMinutes returns the duration in minutes.
func (d Duration) TotalMinutes() int {
	return int(d)
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d) * time.Minute
}

func (d Duration) String() string {
	hours, minutes := int(d)/60, int(d)%60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// TimeOfDay is a wall-clock time with minute precision. It carries no date.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay validates hour (0-23) and minute (0-59).
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute out of range: %d", minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// MustTimeOfDay is NewTimeOfDay for constants; it panics on invalid input.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

// TimeOfDayOf extracts the wall-clock time of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.hour*60 + t.minute
}

// AddMinutes returns t shifted by n minutes, wrapped into 00:00-23:59.
// Day overflow is not reported.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	total := (t.Minutes() + n) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return TimeOfDay{hour: total / 60, minute: total % 60}
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// After reports whether t is strictly later in the day than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Minutes() > other.Minutes()
}

// On places t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.hour, t.minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// Display formats the time for people, e.g. "7:05 AM".
func (t TimeOfDay) Display() string {
	return time.Date(2000, 1, 1, t.hour, t.minute, 0, 0, time.UTC).Format(constants.DisplayTimeFormat)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
