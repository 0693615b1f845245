package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/routines/internal/cli"
)

type DebugCmd struct {
	DBPath      DebugDBPathCmd      `cmd:"" name:"db-path" help:"Show database path."`
	DumpRoutine DebugDumpRoutineCmd `cmd:"" help:"Dump a routine and its schedules as JSON."`
	DumpAlarm   DebugDumpAlarmCmd   `cmd:"" help:"Dump an alarm registration as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": displayTarget(ctx.Store.GetConfigPath())})
}

type DebugDumpRoutineCmd struct {
	Routine string `arg:"" help:"Routine id, id prefix or name."`
}

func (cmd *DebugDumpRoutineCmd) Run(ctx *cli.Context) error {
	r, err := ctx.FindRoutine(cmd.Routine)
	if err != nil {
		return err
	}
	instances, err := ctx.Store.GetInstancesForRoutine(r.ID)
	if err != nil {
		return fmt.Errorf("failed to get schedules: %w", err)
	}
	return printJSON(ctx, map[string]interface{}{
		"routine":   r,
		"schedules": instances,
	})
}

type DebugDumpAlarmCmd struct {
	ID string `arg:"" help:"Alarm id."`
}

func (cmd *DebugDumpAlarmCmd) Run(ctx *cli.Context) error {
	reg, err := ctx.Store.GetAlarm(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get alarm: %w", err)
	}
	return printJSON(ctx, reg)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(out))
	return nil
}
