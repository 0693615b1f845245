package routines

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/models"
)

type AddCmd struct {
	Name  string   `arg:"" help:"Routine name."`
	Steps []string `name:"step" short:"s" help:"Step as NAME=DURATION, e.g. 'Warm-up=5m'. Repeat in order." required:""`
}

func (c *AddCmd) Validate() error {
	if len(c.Steps) == 0 {
		return fmt.Errorf("at least one --step is required")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	steps, err := cli.ParseSteps(c.Steps)
	if err != nil {
		return err
	}

	routine := models.NewRoutine(c.Name, steps, ctx.Now())
	if err := ctx.Controller.CreateRoutine(routine); err != nil {
		return err
	}

	ctx.Printf("Added routine: %s (ID: %s, %d steps, %s)\n",
		routine.Name, routine.ID, len(routine.Steps), routine.TotalDuration())
	return nil
}
