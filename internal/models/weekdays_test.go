package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaysSet(t *testing.T) {
	w := NewWeekdays(time.Wednesday, time.Monday, time.Monday)

	assert.True(t, w.Contains(time.Monday))
	assert.True(t, w.Contains(time.Wednesday))
	assert.False(t, w.Contains(time.Sunday))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, w.Days())
	assert.False(t, w.IsEmpty())
	assert.True(t, Weekdays(0).IsEmpty())
}

func TestWeekdaysDaysAreMondayFirst(t *testing.T) {
	w := NewWeekdays(time.Sunday, time.Saturday, time.Monday)
	assert.Equal(t, []time.Weekday{time.Monday, time.Saturday, time.Sunday}, w.Days())
}

func TestWeekdaysString(t *testing.T) {
	tests := []struct {
		days Weekdays
		want string
	}{
		{0, "Never"},
		{NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday), "Weekdays"},
		{NewWeekdays(time.Saturday, time.Sunday), "Weekends"},
		{NewWeekdays(time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday), "Every day"},
		{NewWeekdays(time.Friday), "Fri"},
		{NewWeekdays(time.Wednesday, time.Monday), "Mon, Wed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.days.String())
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	w, err := ParseWeekdays("mon, Wednesday,5")
	require.NoError(t, err)
	assert.Equal(t, NewWeekdays(time.Monday, time.Wednesday, time.Friday), w)

	w, err = ParseWeekdays("weekends")
	require.NoError(t, err)
	assert.Equal(t, "Weekends", w.String())

	w, err = ParseWeekdays("")
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())

	_, err = ParseWeekdays("mon,funday")
	assert.Error(t, err)
	_, err = ParseWeekdays("7")
	assert.Error(t, err)
}

func TestWeekdaysJSON(t *testing.T) {
	w := NewWeekdays(time.Friday, time.Monday)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `["monday","friday"]`, string(data))

	var decoded Weekdays
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, w, decoded)

	assert.Error(t, json.Unmarshal([]byte(`["someday"]`), &decoded))
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "thursday", WeekdayName(time.Thursday))

	d, ok := ParseWeekdayName("SUNDAY")
	require.True(t, ok)
	assert.Equal(t, time.Sunday, d)

	_, ok = ParseWeekdayName("onetime")
	assert.False(t, ok)
}
