package schedules

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
)

type DeleteCmd struct {
	Schedule string `arg:"" help:"Schedule id or id prefix."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	inst, err := ctx.FindInstance(c.Schedule)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(
			fmt.Sprintf("Delete schedule %q?", inst.Name),
			fmt.Sprintf("%s. Its reminders will be cancelled.", inst.ScheduleString()),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	report, err := ctx.Controller.DeleteInstance(inst.ID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	ctx.Printf("Deleted schedule: %s (ID: %s)\n", inst.Name, inst.ID)
	ctx.PrintReport("reminders", report)
	return nil
}
