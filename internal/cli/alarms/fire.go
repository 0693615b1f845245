package alarms

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/reconcile"
)

// FireCmd delivers one registered alarm immediately.
type FireCmd struct {
	ID string `arg:"" help:"Alarm id, as shown by 'alarm list'."`
}

func (c *FireCmd) Run(ctx *cli.Context) error {
	alarm, err := ctx.Timer.Fire(c.ID, ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to fire alarm %s: %w", c.ID, err)
	}

	report, err := ctx.Controller.HandleFired(alarm)
	if report != nil {
		ctx.PrintReport("renewed "+alarm.Title, *report)
	}
	if err != nil {
		return err
	}

	ctx.Printf("✓ Fired alarm: %s\n", alarm.ID)
	return nil
}

// RestoreCmd re-registers the alarms of every enabled schedule, as after a
// restart or a database restore.
type RestoreCmd struct{}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	reports, err := ctx.Controller.Restore()
	if err != nil {
		return err
	}

	for _, report := range reports {
		ctx.PrintReport("schedule "+cli.ShortID(report.InstanceID), report)
	}

	scheduled, total := reconcile.Merge(reports)
	ctx.Printf("Restored %d schedule(s): %d of %d reminders scheduled\n", len(reports), scheduled, total)
	return nil
}
