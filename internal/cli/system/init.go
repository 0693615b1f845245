package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/routines/internal/cli"
	"github.com/julianstephens/routines/internal/storage"
	"github.com/julianstephens/routines/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy routines and schedules from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized routines storage at: %s\n", displayTarget(ctx.Store.GetConfigPath()))

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", displayTarget(c.Source))
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

// reset deletes a file-backed database. PostgreSQL databases are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if storage.BackendFor(dbPath) == storage.BackendPostgres {
		return fmt.Errorf("--force is not supported for PostgreSQL storage")
	}

	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	if storage.BackendFor(source) == storage.BackendPostgres {
		if _, err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
	}

	src := storage.New(source)
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating routines...")
	routines, err := src.GetAllRoutines()
	if err != nil {
		return fmt.Errorf("failed to get routines from source: %w", err)
	}
	for _, r := range routines {
		if err := ctx.Store.AddRoutine(r); err != nil {
			return fmt.Errorf("failed to add routine %s: %w", r.ID, err)
		}
	}
	ctx.Printf("    Migrated %d routines\n", len(routines))

	ctx.Println("  Migrating schedules...")
	instances, err := src.GetAllInstances()
	if err != nil {
		return fmt.Errorf("failed to get schedules from source: %w", err)
	}
	for _, inst := range instances {
		if err := ctx.Store.AddInstance(inst); err != nil {
			return fmt.Errorf("failed to add schedule %s: %w", inst.ID, err)
		}
	}
	ctx.Printf("    Migrated %d schedules\n", len(instances))

	// Alarms are derived state; rebuild them instead of copying.
	ctx.Println("  Registering reminders...")
	reports := ctx.Controller.RestoreAll(instances, routines)
	for _, report := range reports {
		if !report.OK() {
			ctx.PrintReport("schedule "+cli.ShortID(report.InstanceID), report)
		}
	}
	return nil
}

func displayTarget(target string) string {
	if storage.BackendFor(target) == storage.BackendPostgres {
		return "postgresql"
	}
	return target
}
