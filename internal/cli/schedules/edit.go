package schedules

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/models"
)

type EditCmd struct {
	Schedule string  `arg:"" help:"Schedule id or id prefix."`
	At       *string `short:"a" help:"New start time (HH:MM)."`
	Days     *string `short:"d" help:"New weekdays. Pass an empty string for a one-time run."`
	Name     *string `short:"n" help:"New schedule name."`
	Routine  *string `short:"r" help:"Point the schedule at another routine."`
}

func (c *EditCmd) Validate() error {
	if c.At == nil && c.Days == nil && c.Name == nil && c.Routine == nil {
		return fmt.Errorf("nothing to change: pass --at, --days, --name or --routine")
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	inst, err := ctx.FindInstance(c.Schedule)
	if err != nil {
		return err
	}

	if c.At != nil {
		if inst.StartTime, err = models.ParseTimeOfDay(*c.At); err != nil {
			return err
		}
	}
	if c.Days != nil {
		if inst.Days, err = models.ParseWeekdays(*c.Days); err != nil {
			return err
		}
	}
	if c.Name != nil {
		inst.Name = *c.Name
	}
	if c.Routine != nil {
		r, err := ctx.FindRoutine(*c.Routine)
		if err != nil {
			return err
		}
		inst.RoutineID = r.ID
	}

	report, err := ctx.Controller.UpdateInstance(inst)
	if err != nil {
		return err
	}

	ctx.Printf("Updated schedule: %s %s (ID: %s)\n", inst.Name, inst.ScheduleString(), inst.ID)
	ctx.PrintReport("reminders", report)
	return nil
}

type EnableCmd struct {
	Schedule string `arg:"" help:"Schedule id or id prefix."`
}

func (c *EnableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.Schedule, true)
}

type DisableCmd struct {
	Schedule string `arg:"" help:"Schedule id or id prefix."`
}

func (c *DisableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.Schedule, false)
}

func setEnabled(ctx *cli.Context, ref string, enabled bool) error {
	inst, err := ctx.FindInstance(ref)
	if err != nil {
		return err
	}

	report, err := ctx.Controller.SetEnabled(inst.ID, enabled)
	if err != nil {
		return err
	}

	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	ctx.Printf("%s schedule: %s (ID: %s)\n", verb, inst.Name, inst.ID)
	ctx.PrintReport("reminders", report)
	return nil
}
