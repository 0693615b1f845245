package alarms

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/logger"
)

// WatchCmd ticks in the foreground until interrupted.
type WatchCmd struct {
	Interval time.Duration `help:"Polling interval." default:"30s"`
	Restore  bool          `help:"Re-register every enabled schedule before watching." default:"true" negatable:""`
}

func (c *WatchCmd) Validate() error {
	if c.Interval < time.Second {
		c.Interval = time.Second
	}
	return nil
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx)
}

func (c *WatchCmd) watch(runCtx context.Context, ctx *cli.Context) error {
	if c.Restore {
		if _, err := ctx.Controller.Restore(); err != nil {
			return err
		}
	}

	ctx.Printf("Watching for alarms every %s. Press Ctrl+C to stop.\n", c.Interval)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		if _, err := Tick(ctx); err != nil {
			logger.Warn("Alarm tick failed", "error", err)
		}

		select {
		case <-runCtx.Done():
			ctx.Println("Stopped watching.")
			return nil
		case <-ticker.C:
		}
	}
}
