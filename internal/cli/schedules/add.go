package schedules

import (
	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/models"
)

type AddCmd struct {
	Routine  string `arg:"" help:"Routine id, id prefix or name."`
	At       string `short:"a" help:"Start time (HH:MM)." required:""`
	Days     string `short:"d" help:"Comma-separated weekdays, 'daily', 'weekdays' or 'weekends'. Omit for a one-time run."`
	Name     string `short:"n" help:"Schedule name. Defaults to the routine name."`
	Disabled bool   `help:"Create the schedule without registering reminders."`
}

func (c *AddCmd) Validate() error {
	if _, err := models.ParseTimeOfDay(c.At); err != nil {
		return err
	}
	_, err := models.ParseWeekdays(c.Days)
	return err
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	r, err := ctx.FindRoutine(c.Routine)
	if err != nil {
		return err
	}

	start, err := models.ParseTimeOfDay(c.At)
	if err != nil {
		return err
	}
	days, err := models.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = r.Name
	}

	inst := models.NewScheduleInstance(r.ID, name, start, days, ctx.Now())
	inst.Enabled = !c.Disabled

	report, err := ctx.Controller.CreateInstance(inst)
	if err != nil {
		return err
	}

	ctx.Printf("Added schedule: %s %s (ID: %s)\n", inst.Name, inst.ScheduleString(), inst.ID)
	ctx.PrintReport("reminders", report)
	return nil
}
