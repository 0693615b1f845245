package system

import (
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	NotificationsEnabled *bool `name:"notifications" help:"Enable or disable notifications."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List || c.NotificationsEnabled == nil {
		last := "never"
		if !settings.LastTick.IsZero() {
			last = settings.LastTick.Local().Format("2006-01-02 15:04:05")
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.Printf("  Last Alarm Tick:       %s\n", last)
		ctx.Printf("  Storage:               %s\n", displayTarget(ctx.Store.GetConfigPath()))
		return nil
	}

	settings.NotificationsEnabled = *c.NotificationsEnabled
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
