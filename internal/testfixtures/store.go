package testfixtures

import (
	"sort"
	"sync"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

// MemoryStore keeps routines, schedule instances, alarm registrations and
// settings in maps. It mirrors the storage backends' not-found behaviour.
type MemoryStore struct {
	mu        sync.Mutex
	routines  map[string]models.Routine
	instances map[string]models.ScheduleInstance
	alarms    map[string]models.Registration
	settings  models.Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		routines:  make(map[string]models.Routine),
		instances: make(map[string]models.ScheduleInstance),
		alarms:    make(map[string]models.Registration),
		settings:  models.Settings{NotificationsEnabled: true},
	}
}

func (s *MemoryStore) AddRoutine(r models.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routines[r.ID] = r
	return nil
}

func (s *MemoryStore) GetRoutine(id string) (models.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routines[id]
	if !ok {
		return models.Routine{}, apperr.NotFound("routine", id)
	}
	return r, nil
}

func (s *MemoryStore) GetAllRoutines() ([]models.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Routine, 0, len(s.routines))
	for _, r := range s.routines {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateRoutine(r models.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routines[r.ID]; !ok {
		return apperr.NotFound("routine", r.ID)
	}
	s.routines[r.ID] = r
	return nil
}

func (s *MemoryStore) DeleteRoutine(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routines[id]; !ok {
		return apperr.NotFound("routine", id)
	}
	delete(s.routines, id)
	return nil
}

func (s *MemoryStore) AddInstance(inst models.ScheduleInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.ID] = inst
	return nil
}

func (s *MemoryStore) GetInstance(id string) (models.ScheduleInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return models.ScheduleInstance{}, apperr.NotFound("schedule", id)
	}
	return inst, nil
}

func (s *MemoryStore) GetAllInstances() ([]models.ScheduleInstance, error) {
	return s.filterInstances(func(models.ScheduleInstance) bool { return true }), nil
}

func (s *MemoryStore) GetInstancesForRoutine(routineID string) ([]models.ScheduleInstance, error) {
	return s.filterInstances(func(inst models.ScheduleInstance) bool {
		return inst.RoutineID == routineID
	}), nil
}

func (s *MemoryStore) filterInstances(keep func(models.ScheduleInstance) bool) []models.ScheduleInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ScheduleInstance, 0, len(s.instances))
	for _, inst := range s.instances {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) UpdateInstance(inst models.ScheduleInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[inst.ID]; !ok {
		return apperr.NotFound("schedule", inst.ID)
	}
	s.instances[inst.ID] = inst
	return nil
}

func (s *MemoryStore) DeleteInstance(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[id]; !ok {
		return apperr.NotFound("schedule", id)
	}
	delete(s.instances, id)
	return nil
}

func (s *MemoryStore) DeleteInstancesForRoutine(routineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, inst := range s.instances {
		if inst.RoutineID == routineID {
			delete(s.instances, id)
		}
	}
	return nil
}

// SaveAlarm inserts or replaces a registration.
func (s *MemoryStore) SaveAlarm(reg models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms[reg.ID] = reg
	return nil
}

func (s *MemoryStore) GetAlarm(id string) (models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.alarms[id]
	if !ok {
		return models.Registration{}, apperr.NotFound("alarm", id)
	}
	return reg, nil
}

func (s *MemoryStore) GetAllAlarms() ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Registration, 0, len(s.alarms))
	for _, reg := range s.alarms {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteAlarm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alarms[id]; !ok {
		return apperr.NotFound("alarm", id)
	}
	delete(s.alarms, id)
	return nil
}

func (s *MemoryStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *MemoryStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}
