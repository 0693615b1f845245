// Package alarmid encodes and decodes routine alarm ids.
//
// An id has the form
//
//	routine_{instanceID}_step_{stepIndex}_{weekday|onetime}
//
// where weekday is the lowercase English day name. The format is the one
// contract external tooling may depend on, so it must stay bit-exact.
package alarmid

import (
	"strconv"
	"strings"
	"time"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

const (
	Prefix        = "routine_"
	StepSeparator = "_step_"
	OneTimeToken  = "onetime"
)

// Encode builds the id for info.
func Encode(info models.AlarmInfo) string {
	if info.OneTime {
		return OneTime(info.InstanceID, info.StepIndex)
	}
	return Weekly(info.InstanceID, info.StepIndex, info.Weekday)
}

// Weekly builds the id of a recurring step alarm.
func Weekly(instanceID string, stepIndex int, day time.Weekday) string {
	return build(instanceID, stepIndex, models.WeekdayName(day))
}

// OneTime builds the id of a one-time step alarm.
func OneTime(instanceID string, stepIndex int) string {
	return build(instanceID, stepIndex, OneTimeToken)
}

func build(instanceID string, stepIndex int, token string) string {
	var b strings.Builder
	b.Grow(len(Prefix) + len(instanceID) + len(StepSeparator) + len(token) + 4)
	b.WriteString(Prefix)
	b.WriteString(instanceID)
	b.WriteString(StepSeparator)
	b.WriteString(strconv.Itoa(stepIndex))
	b.WriteByte('_')
	b.WriteString(token)
	return b.String()
}

// IsRoutineAlarm is a prefix check only; it does not validate the rest of the id.
func IsRoutineAlarm(id string) bool {
	return strings.HasPrefix(id, Prefix)
}

// Decode reverses Encode. Malformed ids yield a *errors.DecodeError.
func Decode(id string) (models.AlarmInfo, error) {
	if !IsRoutineAlarm(id) {
		return models.AlarmInfo{}, decodeErr(id, "missing routine prefix")
	}

	instanceID, rest, ok := strings.Cut(strings.TrimPrefix(id, Prefix), StepSeparator)
	if !ok {
		return models.AlarmInfo{}, decodeErr(id, "missing step separator")
	}
	if instanceID == "" {
		return models.AlarmInfo{}, decodeErr(id, "empty instance id")
	}

	sep := strings.LastIndexByte(rest, '_')
	if sep < 0 {
		return models.AlarmInfo{}, decodeErr(id, "missing day token")
	}
	stepStr, token := rest[:sep], rest[sep+1:]

	if !isDigits(stepStr) {
		return models.AlarmInfo{}, decodeErr(id, "step index is not a non-negative integer")
	}
	stepIndex, err := strconv.Atoi(stepStr)
	if err != nil {
		return models.AlarmInfo{}, decodeErr(id, "step index out of range")
	}

	info := models.AlarmInfo{InstanceID: instanceID, StepIndex: stepIndex}
	if token == OneTimeToken {
		info.OneTime = true
		return info, nil
	}

	day, ok := models.ParseWeekdayName(token)
	if !ok || token != models.WeekdayName(day) {
		return models.AlarmInfo{}, decodeErr(id, "unknown weekday token "+strconv.Quote(token))
	}
	info.Weekday = day
	return info, nil
}

// Parse is Decode for callers that treat any failure as "not a routine alarm".
func Parse(id string) (models.AlarmInfo, bool) {
	info, err := Decode(id)
	return info, err == nil
}

// BelongsTo reports whether id decodes to an alarm of instanceID.
func BelongsTo(id, instanceID string) bool {
	info, ok := Parse(id)
	return ok && info.InstanceID == instanceID
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func decodeErr(id, reason string) error {
	return &apperr.DecodeError{AlarmID: id, Reason: reason}
}
