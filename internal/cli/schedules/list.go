package schedules

import (
	"fmt"
	"strings"

	"github.com/julianstephens/routines/internal/cli"
	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/scheduler"
)

type ListCmd struct {
	EnabledOnly bool `help:"Show only enabled schedules."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	instances, err := ctx.Store.GetAllInstances()
	if err != nil {
		return fmt.Errorf("failed to get schedules: %w", err)
	}

	if len(instances) == 0 {
		ctx.Println("No schedules found")
		return nil
	}

	ctx.Printf("%-10s %-24s %-24s %-22s %-10s %s\n", "ID", "Name", "Routine", "Schedule", "State", "Next")
	ctx.Println(strings.Repeat("-", 110))

	now := ctx.Now()
	for _, inst := range instances {
		if c.EnabledOnly && !inst.Enabled {
			continue
		}

		routineName := "(missing)"
		next := "-"
		r, err := ctx.Store.GetRoutine(inst.RoutineID)
		switch {
		case err == nil:
			routineName = r.Name
			at, ok := ctx.Scheduler.NextFire(inst, r, now)
			next = scheduler.FormatNext(at, ok, now)
		case !apperr.IsNotFound(err):
			return fmt.Errorf("failed to get routine for %s: %w", inst.Name, err)
		}

		ctx.Printf("%-10s %-24s %-24s %-22s %-10s %s\n",
			cli.ShortID(inst.ID), truncate(inst.Name, 22), truncate(routineName, 22),
			inst.ScheduleString(), inst.State(), next)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

type NextCmd struct {
	Schedule string `arg:"" optional:"" help:"Schedule id or id prefix. Omit to show the soonest schedule."`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()

	if c.Schedule != "" {
		inst, err := ctx.FindInstance(c.Schedule)
		if err != nil {
			return err
		}
		next, ok, err := ctx.Controller.NextFire(inst)
		if err != nil {
			return err
		}
		ctx.Printf("%s: %s\n", inst.Name, scheduler.FormatNext(next, ok, now))
		return nil
	}

	instances, err := ctx.Store.GetAllInstances()
	if err != nil {
		return fmt.Errorf("failed to get schedules: %w", err)
	}

	var (
		soonest     models.ScheduleInstance
		soonestTime = now
		found       bool
	)
	for _, inst := range instances {
		next, ok, err := ctx.Controller.NextFire(inst)
		if err != nil {
			return err
		}
		if ok && (!found || next.Before(soonestTime)) {
			soonest, soonestTime, found = inst, next, true
		}
	}

	if !found {
		ctx.Println("Nothing scheduled")
		return nil
	}
	ctx.Printf("%s: %s\n", soonest.Name, scheduler.FormatNext(soonestTime, true, now))
	return nil
}
