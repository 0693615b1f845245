// Package storage defines the persistence contract shared by the SQLite,
// PostgreSQL and JSON backends and picks one from a configured target.
package storage

import (
	"strings"

	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/storage/postgres"
	"github.com/julianstephens/routines/internal/storage/sqlite"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Routines
	AddRoutine(models.Routine) error
	GetRoutine(id string) (models.Routine, error)
	GetAllRoutines() ([]models.Routine, error)
	UpdateRoutine(models.Routine) error
	DeleteRoutine(id string) error

	// Schedule instances
	AddInstance(models.ScheduleInstance) error
	GetInstance(id string) (models.ScheduleInstance, error)
	GetAllInstances() ([]models.ScheduleInstance, error)
	GetInstancesForRoutine(routineID string) ([]models.ScheduleInstance, error)
	UpdateInstance(models.ScheduleInstance) error
	DeleteInstance(id string) error
	DeleteInstancesForRoutine(routineID string) error

	// Alarm registrations held by the store-backed timer
	SaveAlarm(models.Registration) error
	GetAlarm(id string) (models.Registration, error)
	GetAllAlarms() ([]models.Registration, error)
	DeleteAlarm(id string) error

	// Utils
	GetConfigPath() string
}

// Backend names the kind of store a target resolves to.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendJSON     Backend = "json"
)

// BackendFor classifies a storage target: PostgreSQL URLs, .json files,
// and SQLite for every other path.
func BackendFor(target string) Backend {
	switch {
	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		return BackendPostgres
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return BackendJSON
	default:
		return BackendSQLite
	}
}

// New returns an unopened provider for target. Call Init or Load before use.
func New(target string) Provider {
	switch BackendFor(target) {
	case BackendPostgres:
		return postgres.New(target)
	case BackendJSON:
		return NewJSONStore(target)
	default:
		return sqlite.NewStore(target)
	}
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*JSONStore)(nil)
)
