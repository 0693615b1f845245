package routines

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/models"
)

type EditCmd struct {
	Routine string   `arg:"" help:"Routine id, id prefix or name."`
	Name    *string  `help:"New routine name."`
	Steps   []string `name:"step" short:"s" help:"Replace all steps, as NAME=DURATION. Repeat in order."`
}

func (c *EditCmd) Validate() error {
	if c.Name == nil && len(c.Steps) == 0 {
		return fmt.Errorf("nothing to change: pass --name or --step")
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	r, err := ctx.FindRoutine(c.Routine)
	if err != nil {
		return err
	}

	update := models.RoutineUpdate{Name: c.Name}
	if len(c.Steps) > 0 {
		if update.Steps, err = cli.ParseSteps(c.Steps); err != nil {
			return err
		}
	}

	updated, reports, err := ctx.Controller.UpdateRoutine(r.ID, update)
	if err != nil {
		return err
	}

	ctx.Printf("Updated routine: %s (ID: %s)\n", updated.Name, updated.ID)
	for _, report := range reports {
		ctx.PrintReport("schedule "+cli.ShortID(report.InstanceID), report)
	}
	return nil
}

type DuplicateCmd struct {
	Routine string `arg:"" help:"Routine id, id prefix or name."`
	Name    string `help:"Name of the copy. Defaults to '<name> (copy)'."`
}

func (c *DuplicateCmd) Run(ctx *cli.Context) error {
	r, err := ctx.FindRoutine(c.Routine)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = r.Name + " (copy)"
	}

	dup, err := ctx.Controller.DuplicateRoutine(r.ID, name)
	if err != nil {
		return err
	}

	ctx.Printf("Duplicated routine: %s (ID: %s)\n", dup.Name, dup.ID)
	return nil
}
