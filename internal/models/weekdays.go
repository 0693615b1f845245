package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekdays is a set of days of the week stored as a bitmask (bit n = time.Weekday(n)).
type Weekdays uint8

const (
	allWeekdays Weekdays = 0x7f
	workWeek    Weekdays = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday | 1<<time.Thursday | 1<<time.Friday
	weekend     Weekdays = 1<<time.Saturday | 1<<time.Sunday
)

// isoOrder lists days Monday first.
var isoOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var weekdayAliases = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// NewWeekdays builds a set from the given days.
func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.With(d)
	}
	return w
}

// With returns a copy of w that also contains d.
func (w Weekdays) With(d time.Weekday) Weekdays {
	return w | 1<<uint(d%7)
}

func (w Weekdays) Contains(d time.Weekday) bool {
	return w&(1<<uint(d%7)) != 0
}

func (w Weekdays) IsEmpty() bool {
	return w&allWeekdays == 0
}

func (w Weekdays) Len() int {
	n := 0
	for _, d := range isoOrder {
		if w.Contains(d) {
			n++
		}
	}
	return n
}

// Days returns the members Monday first.
func (w Weekdays) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for _, d := range isoOrder {
		if w.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (w Weekdays) String() string {
	w &= allWeekdays
	switch w {
	case 0:
		return "Never"
	case allWeekdays:
		return "Every day"
	case workWeek:
		return "Weekdays"
	case weekend:
		return "Weekends"
	}

	names := make([]string, 0, 7)
	for _, d := range w.Days() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ", ")
}

func (w Weekdays) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, 7)
	for _, d := range w.Days() {
		names = append(names, WeekdayName(d))
	}
	return json.Marshal(names)
}

func (w *Weekdays) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return fmt.Errorf("failed to unmarshal weekdays: %w", err)
	}
	var set Weekdays
	for _, name := range names {
		d, ok := ParseWeekdayName(name)
		if !ok {
			return fmt.Errorf("invalid weekday: %s", name)
		}
		set = set.With(d)
	}
	*w = set
	return nil
}

// WeekdayName returns the lowercase English name, e.g. "monday".
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// ParseWeekdayName accepts full or three-letter English day names in any case.
func ParseWeekdayName(s string) (time.Weekday, bool) {
	d, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// ParseWeekdays parses a comma-separated list of weekdays. Besides day names it
// accepts numbers (0=Sunday, 6=Saturday) and the shorthands "daily",
// "weekdays" and "weekends". An empty string yields the empty set.
func ParseWeekdays(s string) (Weekdays, error) {
	var set Weekdays
	if strings.TrimSpace(s) == "" {
		return set, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "daily", "everyday", "all":
			set |= allWeekdays
			continue
		case "weekdays":
			set |= workWeek
			continue
		case "weekends":
			set |= weekend
			continue
		}

		if d, ok := weekdayAliases[part]; ok {
			set = set.With(d)
			continue
		}

		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return 0, fmt.Errorf("invalid weekday: %s", part)
		}
		set = set.With(time.Weekday(num))
	}

	return set, nil
}
