package routines

import (
	"fmt"
	"strings"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/scheduler"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	routines, err := ctx.Store.GetAllRoutines()
	if err != nil {
		return fmt.Errorf("failed to get routines: %w", err)
	}

	if len(routines) == 0 {
		ctx.Println("No routines found")
		return nil
	}

	ctx.Printf("%-10s %-30s %-6s %-10s %-9s\n", "ID", "Name", "Steps", "Duration", "Schedules")
	ctx.Println(strings.Repeat("-", 70))

	for _, r := range routines {
		instances, err := ctx.Store.GetInstancesForRoutine(r.ID)
		if err != nil {
			return fmt.Errorf("failed to get schedules for %s: %w", r.Name, err)
		}

		name := r.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		ctx.Printf("%-10s %-30s %-6d %-10s %-9d\n",
			cli.ShortID(r.ID), name, len(r.Steps), r.TotalDuration(), len(instances))
	}

	return nil
}

type ShowCmd struct {
	Routine string `arg:"" help:"Routine id, id prefix or name."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	r, err := ctx.FindRoutine(c.Routine)
	if err != nil {
		return err
	}

	ctx.Printf("%s (ID: %s)\n", r.Name, r.ID)
	ctx.Printf("Total: %s\n\n", r.TotalDuration())

	offset := 0
	for i, step := range r.Steps {
		ctx.Printf("  %d. %-24s %6s  (+%dm)\n", i+1, step.Name, step.Duration, offset)
		offset += step.Duration.TotalMinutes()
	}

	instances, err := ctx.Store.GetInstancesForRoutine(r.ID)
	if err != nil {
		return fmt.Errorf("failed to get schedules: %w", err)
	}
	if len(instances) == 0 {
		return nil
	}

	ctx.Println("\nSchedules:")
	now := ctx.Now()
	for _, inst := range instances {
		next, ok := ctx.Scheduler.NextFire(inst, r, now)
		ctx.Printf("  %-10s %-20s %-8s next: %s\n",
			cli.ShortID(inst.ID), inst.ScheduleString(), inst.State(), scheduler.FormatNext(next, ok, now))
	}
	return nil
}
