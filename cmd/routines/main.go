package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/cli/alarms"
	"github.com/julianstephens/routines/internal/cli/backups"
	"github.com/julianstephens/routines/internal/cli/routines"
	"github.com/julianstephens/routines/internal/cli/schedules"
	"github.com/julianstephens/routines/internal/cli/system"
	"github.com/julianstephens/routines/internal/config"
	"github.com/julianstephens/routines/internal/constants"
	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path, .json file or PostgreSQL connection string. Defaults to ROUTINES_DB_CONNECTION, the .env file, the OS keyring, then ~/.config/routines/routines.db. PostgreSQL passwords must NOT be passed here." type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize routines storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Validate system.ValidateCmd `cmd:"" help:"Check schedules against registered alarms."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Settings system.SettingsCmd `cmd:"" help:"View or change settings."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the connection string stored in the OS keyring."`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`

	Routine struct {
		Add       routines.AddCmd       `cmd:"" help:"Add a routine."`
		List      routines.ListCmd      `cmd:"" help:"List routines."`
		Show      routines.ShowCmd      `cmd:"" help:"Show a routine's steps and schedules."`
		Edit      routines.EditCmd      `cmd:"" help:"Rename a routine or replace its steps."`
		Duplicate routines.DuplicateCmd `cmd:"" help:"Copy a routine under a new name."`
		Delete    routines.DeleteCmd    `cmd:"" help:"Delete a routine and its schedules."`
	} `cmd:"" help:"Manage routines."`
	Schedule struct {
		Add     schedules.AddCmd     `cmd:"" help:"Schedule a routine."`
		List    schedules.ListCmd    `cmd:"" help:"List schedules."`
		Edit    schedules.EditCmd    `cmd:"" help:"Change a schedule."`
		Enable  schedules.EnableCmd  `cmd:"" help:"Enable a schedule and register its reminders."`
		Disable schedules.DisableCmd `cmd:"" help:"Disable a schedule and cancel its reminders."`
		Delete  schedules.DeleteCmd  `cmd:"" help:"Delete a schedule."`
		Next    schedules.NextCmd    `cmd:"" help:"Show when a schedule next starts."`
	} `cmd:"" help:"Manage schedules."`
	Alarm struct {
		List    alarms.ListCmd    `cmd:"" help:"List registered alarms." default:"1"`
		Tick    alarms.TickCmd    `cmd:"" help:"Deliver alarms that came due since the last tick."`
		Watch   alarms.WatchCmd   `cmd:"" help:"Deliver alarms in the foreground until interrupted."`
		Fire    alarms.FireCmd    `cmd:"" help:"Deliver one alarm now."`
		Restore alarms.RestoreCmd `cmd:"" help:"Re-register reminders for every enabled schedule."`
		Test    alarms.TestCmd    `cmd:"" help:"Register a test alarm a few seconds out."`
	} `cmd:"" help:"Inspect and deliver alarms."`
	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.ListCmd    `cmd:"" help:"List available backups."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// needsStore reports whether the selected command reads the database.
func needsStore(command string) bool {
	return !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "keyring")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Routines with step-by-step reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir, err := config.DefaultConfigDir()
	if err != nil {
		apperr.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		apperr.Fatal(err)
	}

	resolver, err := config.NewResolver()
	if err != nil {
		apperr.Fatal(err)
	}
	target, err := resolver.Resolve(CLI.Config)
	if err != nil {
		apperr.Fatal(err)
	}
	logger.Debug("Using storage", "target", target.String())

	store := storage.New(target.Value)
	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			apperr.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(cli.NewContext(store)); err != nil {
		store.Close()
		apperr.Fatal(err)
	}
}
