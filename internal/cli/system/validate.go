package system

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
)

// ValidateCmd checks stored routines and schedules against the registered
// alarms and reports any drift.
type ValidateCmd struct {
	Fix bool `help:"Re-register reminders for every enabled schedule when problems are found."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	routines, err := ctx.Store.GetAllRoutines()
	if err != nil {
		return fmt.Errorf("failed to load routines: %w", err)
	}
	instances, err := ctx.Store.GetAllInstances()
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	registered, err := ctx.Timer.Registered()
	if err != nil {
		return fmt.Errorf("failed to load alarms: %w", err)
	}

	ctx.Println("Validating routines, schedules and alarms...")
	result := ctx.Validator.Check(routines, instances, registered)
	ctx.Println()
	ctx.Println(result.FormatReport())

	if result.HasConflicts() && c.Fix {
		reports := ctx.Controller.RestoreAll(instances, routines)
		for _, report := range reports {
			ctx.PrintReport("schedule "+cli.ShortID(report.InstanceID), report)
		}
	}
	return nil
}
