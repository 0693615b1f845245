package alarms

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/constants"
	"github.com/julianstephens/routines/internal/models"
)

// TestCmd registers a throwaway alarm a few seconds out to check delivery.
type TestCmd struct {
	Wait bool `help:"Wait for the alarm and deliver it."`
}

func (c *TestCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	at := now.Add(constants.TestAlarmDelay)
	item := models.AlarmItem{
		ID:      constants.TestAlarmPrefix + uuid.New().String(),
		Title:   "Test alarm",
		Time:    models.TimeOfDayOf(at),
		Enabled: true,
	}

	if err := ctx.Timer.RegisterOnce(item, at); err != nil {
		return fmt.Errorf("failed to register test alarm: %w", err)
	}
	ctx.Printf("✓ Test alarm registered for %s (ID: %s)\n", at.Format("15:04:05"), item.ID)

	if !c.Wait {
		ctx.Println("Run 'routines alarm tick' after it is due to deliver it.")
		return nil
	}

	time.Sleep(time.Until(at))
	alarm, err := ctx.Timer.Fire(item.ID, ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to fire test alarm: %w", err)
	}
	if _, err := ctx.Controller.HandleFired(alarm); err != nil {
		return err
	}
	ctx.Println("✓ Test alarm delivered")
	return nil
}

