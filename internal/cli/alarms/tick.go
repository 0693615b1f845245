package alarms

import (
	"fmt"
	"time"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/constants"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/models"
)

// TickCmd delivers every alarm that came due since the previous tick. It is
// meant to be run periodically, for example from cron.
type TickCmd struct{}

func (c *TickCmd) Run(ctx *cli.Context) error {
	delivered, err := Tick(ctx)
	if delivered > 0 {
		ctx.Printf("Delivered %d alarm(s)\n", delivered)
	}
	return err
}

// Tick fires the alarms due in (last tick, now] and advances the stored tick
// mark. The window is at least DefaultTickWindow on the first run and never
// reaches back further than MaxTickWindow.
func Tick(ctx *cli.Context) (int, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return 0, fmt.Errorf("failed to load settings: %w", err)
	}

	now := ctx.Now()
	since := TickWindowStart(settings.LastTick, now)

	delivered, tickErr := ctx.Timer.Tick(since, now, func(alarm models.FiredAlarm) error {
		report, err := ctx.Controller.HandleFired(alarm)
		if report != nil {
			ctx.PrintReport("renewed "+alarm.Title, *report)
		}
		return err
	})

	// Reload so a settings change made by a handler is not overwritten.
	if settings, err = ctx.Store.GetSettings(); err != nil {
		return delivered, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.LastTick = now
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return delivered, fmt.Errorf("failed to save tick mark: %w", err)
	}

	logger.Debug("Alarm tick", "since", since, "now", now, "delivered", delivered)
	return delivered, tickErr
}

// TickWindowStart returns the lower bound of the polling window ending at now.
func TickWindowStart(last, now time.Time) time.Time {
	if last.IsZero() || !last.Before(now) {
		return now.Add(-constants.DefaultTickWindow)
	}
	if oldest := now.Add(-constants.MaxTickWindow); last.Before(oldest) {
		logger.Warn("Last alarm tick is too old, skipping missed alarms", "last_tick", last)
		return oldest
	}
	return last
}
