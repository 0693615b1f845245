package reconcile

import (
	"time"

	"github.com/julianstephens/routines/internal/models"
)

// AlarmTimer registers and cancels alarms by their exact id.
type AlarmTimer interface {
	// RegisterOnce schedules item to fire once at the absolute instant at.
	RegisterOnce(item models.AlarmItem, at time.Time) error
	// RegisterWeekly schedules item to fire every week on day at item.Time.
	RegisterWeekly(item models.AlarmItem, day time.Weekday) error
	Cancel(id string) error
	// Registered lists the ids of every alarm currently held.
	Registered() ([]string, error)
}

type RoutineStore interface {
	AddRoutine(models.Routine) error
	GetRoutine(id string) (models.Routine, error)
	GetAllRoutines() ([]models.Routine, error)
	UpdateRoutine(models.Routine) error
	DeleteRoutine(id string) error
}

type InstanceStore interface {
	AddInstance(models.ScheduleInstance) error
	GetInstance(id string) (models.ScheduleInstance, error)
	GetAllInstances() ([]models.ScheduleInstance, error)
	GetInstancesForRoutine(routineID string) ([]models.ScheduleInstance, error)
	UpdateInstance(models.ScheduleInstance) error
	DeleteInstance(id string) error
}

// Store is the persistence the controller reads and writes.
type Store interface {
	RoutineStore
	InstanceStore
}

// Notifier presents a fired alarm. info is nil for alarms that are not
// routine alarms.
type Notifier interface {
	Notify(alarm models.FiredAlarm, info *models.AlarmInfo) error
}
