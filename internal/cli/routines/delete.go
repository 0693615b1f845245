package routines

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
)

type DeleteCmd struct {
	Routine string `arg:"" help:"Routine id, id prefix or name."`
	Yes     bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	r, err := ctx.FindRoutine(c.Routine)
	if err != nil {
		return err
	}

	instances, err := ctx.Store.GetInstancesForRoutine(r.ID)
	if err != nil {
		return fmt.Errorf("failed to get schedules: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(
			fmt.Sprintf("Delete routine %q?", r.Name),
			fmt.Sprintf("This also deletes %d schedule(s) and cancels their reminders.", len(instances)),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	reports, err := ctx.Controller.DeleteRoutine(r.ID)
	for _, report := range reports {
		ctx.PrintReport("schedule "+cli.ShortID(report.InstanceID), report)
	}
	if err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}

	ctx.Printf("Deleted routine: %s (ID: %s)\n", r.Name, r.ID)
	return nil
}
