package tui

import (
	"fmt"

	"github.com/julianstephens/routines/internal/models"
)

type scheduleItem struct {
	inst    models.ScheduleInstance
	routine string
	next    string
}

func (i scheduleItem) Title() string {
	title := fmt.Sprintf("%s  %s", i.inst.Name, i.inst.ScheduleString())
	if !i.inst.Enabled {
		title = "[OFF] " + title
	}
	return title
}

func (i scheduleItem) Description() string {
	return fmt.Sprintf("%s • next: %s", i.routine, i.next)
}

func (i scheduleItem) FilterValue() string { return i.inst.Name }

type routineItem struct {
	routine   models.Routine
	schedules int
}

func (i routineItem) Title() string {
	return fmt.Sprintf("%s (%s)", i.routine.Name, i.routine.TotalDuration())
}

func (i routineItem) Description() string {
	names := ""
	for n, s := range i.routine.Steps {
		if n > 0 {
			names += " → "
		}
		names += s.Name
	}
	return fmt.Sprintf("%d schedule(s) • %s", i.schedules, names)
}

func (i routineItem) FilterValue() string { return i.routine.Name }
