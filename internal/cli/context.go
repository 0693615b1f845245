package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routines/internal/backup"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/notifier"
	"github.com/julianstephens/routines/internal/reconcile"
	"github.com/julianstephens/routines/internal/scheduler"
	"github.com/julianstephens/routines/internal/storage"
	"github.com/julianstephens/routines/internal/timer"
	"github.com/julianstephens/routines/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Store      storage.Provider
	Scheduler  *scheduler.Scheduler
	Timer      *timer.Timer
	Controller *reconcile.Controller
	Validator  *validation.Validator
	// Sender presents fired alarms when notifications are enabled.
	Sender notifier.Sender
	Now    func() time.Time
	Out    io.Writer
	// Confirm asks a yes/no question before destructive commands.
	Confirm func(title, description string) (bool, error)
}

type Option func(*Context)

func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.Now = now }
}

func WithOutput(w io.Writer) Option {
	return func(c *Context) { c.Out = w }
}

func WithSender(s notifier.Sender) Option {
	return func(c *Context) { c.Sender = s }
}

func WithConfirm(fn func(title, description string) (bool, error)) Option {
	return func(c *Context) { c.Confirm = fn }
}

// NewContext wires the store-backed timer and the reconcile controller
// around store.
func NewContext(store storage.Provider, opts ...Option) *Context {
	c := &Context{
		Store:     store,
		Scheduler: scheduler.New(),
		Validator: validation.New(),
		Now:       time.Now,
		Out:       os.Stdout,
		Confirm:   confirm,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Sender == nil {
		c.Sender = notifier.Fallback{Primary: notifier.NewTray(), Secondary: notifier.NewConsole(c.Out)}
	}

	c.Timer = timer.New(store, timer.WithClock(c.Now))
	c.Controller = reconcile.New(store, c.Timer,
		reconcile.WithNotifier(settingsGate{ctx: c}),
		reconcile.WithClock(c.Now),
	)
	return c
}

// settingsGate drops notifications while they are disabled in settings.
type settingsGate struct {
	ctx *Context
}

func (g settingsGate) Notify(alarm models.FiredAlarm, info *models.AlarmInfo) error {
	settings, err := g.ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		logger.Debug("Notifications disabled, dropping alarm", "alarm", alarm.ID)
		return nil
	}
	return g.ctx.Sender.Notify(alarm, info)
}

func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup snapshots SQLite stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if storage.BackendFor(path) != storage.BackendSQLite {
		return
	}
	if _, err := backup.NewManager(path, backup.WithClock(c.Now)).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// PrintReport writes one line per reconciliation plus each failed item.
func (c *Context) PrintReport(label string, r reconcile.Report) {
	mark := "✓"
	if !r.OK() {
		mark = "⚠️ "
	}
	c.Printf("%s %s: %s\n", mark, label, r.Summary())
	for _, res := range r.Results {
		if res.Err != nil {
			c.Printf("    %s: %v\n", res.Item.ID, res.Err)
		}
	}
}

// FindRoutine resolves ref as a routine id, a unique id prefix, or an
// exact name (case-insensitive).
func (c *Context) FindRoutine(ref string) (models.Routine, error) {
	if r, err := c.Store.GetRoutine(ref); err == nil {
		return r, nil
	}
	routines, err := c.Store.GetAllRoutines()
	if err != nil {
		return models.Routine{}, fmt.Errorf("failed to load routines: %w", err)
	}

	var matches []models.Routine
	for _, r := range routines {
		if strings.HasPrefix(r.ID, ref) || strings.EqualFold(r.Name, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return models.Routine{}, fmt.Errorf("no routine matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Routine{}, fmt.Errorf("%q matches %d routines, use the full id", ref, len(matches))
	}
}

// FindInstance resolves ref as a schedule id or a unique id prefix.
func (c *Context) FindInstance(ref string) (models.ScheduleInstance, error) {
	if inst, err := c.Store.GetInstance(ref); err == nil {
		return inst, nil
	}
	instances, err := c.Store.GetAllInstances()
	if err != nil {
		return models.ScheduleInstance{}, fmt.Errorf("failed to load schedules: %w", err)
	}

	var matches []models.ScheduleInstance
	for _, inst := range instances {
		if strings.HasPrefix(inst.ID, ref) {
			matches = append(matches, inst)
		}
	}
	switch len(matches) {
	case 0:
		return models.ScheduleInstance{}, fmt.Errorf("no schedule matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.ScheduleInstance{}, fmt.Errorf("%q matches %d schedules, use the full id", ref, len(matches))
	}
}

// ShortID trims a uuid to its first block for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// ParseSteps reads NAME=DURATION pairs such as "Warm-up=5m" or "Run=20".
func ParseSteps(args []string) ([]models.Step, error) {
	steps := make([]models.Step, 0, len(args))
	for i, arg := range args {
		name, dur, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("step %d: expected NAME=DURATION, got %q", i+1, arg)
		}
		d, err := models.ParseDuration(dur)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, models.NewStep(strings.TrimSpace(name), d))
	}
	return steps, nil
}
