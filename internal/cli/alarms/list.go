package alarms

import (
	"fmt"
	"strings"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/models"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	regs, err := ctx.Timer.List()
	if err != nil {
		return fmt.Errorf("failed to get alarms: %w", err)
	}

	if len(regs) == 0 {
		ctx.Println("No alarms registered.")
		return nil
	}

	ctx.Printf("%-64s %-7s %-16s %s\n", "ID", "Kind", "When", "Text")
	ctx.Println(strings.Repeat("-", 110))

	for _, reg := range regs {
		ctx.Printf("%-64s %-7s %-16s %s\n", reg.ID, reg.Kind, when(reg), label(reg))
	}
	return nil
}

func when(reg models.Registration) string {
	if reg.Kind == models.RegistrationOnce {
		return reg.FireAt.Local().Format("Mon Jan 2 15:04")
	}
	return fmt.Sprintf("%s %s", models.WeekdayName(reg.Weekday), reg.Time)
}

func label(reg models.Registration) string {
	if reg.StepName == "" {
		return reg.Title
	}
	return reg.Title + " - " + reg.StepName
}
