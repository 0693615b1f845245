package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/routines/internal/constants"
	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

// JSONVersion is the document format written by JSONStore.
const JSONVersion = 1

// Document is the on-disk layout of a JSON store.
type Document struct {
	Version   int                                `json:"version"`
	Settings  models.Settings                    `json:"settings"`
	Routines  map[string]models.Routine          `json:"routines"`
	Instances map[string]models.ScheduleInstance `json:"instances"`
	Alarms    map[string]models.Registration     `json:"alarms"`
}

func newDocument() *Document {
	return &Document{
		Version:   JSONVersion,
		Settings:  models.Settings{NotificationsEnabled: constants.DefaultNotificationsEnabled},
		Routines:  make(map[string]models.Routine),
		Instances: make(map[string]models.ScheduleInstance),
		Alarms:    make(map[string]models.Registration),
	}
}

// JSONStore keeps the whole document in memory and rewrites the file on
// every change.
type JSONStore struct {
	path string
	doc  *Document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = newDocument()
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'routines init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > JSONVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade routines", doc.Version, JSONVersion)
	}
	doc.Version = JSONVersion

	if doc.Routines == nil {
		doc.Routines = make(map[string]models.Routine)
	}
	if doc.Instances == nil {
		doc.Instances = make(map[string]models.ScheduleInstance)
	}
	if doc.Alarms == nil {
		doc.Alarms = make(map[string]models.Registration)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes to a temporary file and renames it over the store.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) AddRoutine(r models.Routine) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Routines[r.ID]; ok {
		return fmt.Errorf("routine %s already exists", r.ID)
	}
	s.doc.Routines[r.ID] = cloneRoutine(r)
	return s.save()
}

func (s *JSONStore) GetRoutine(id string) (models.Routine, error) {
	if err := s.loaded(); err != nil {
		return models.Routine{}, err
	}
	r, ok := s.doc.Routines[id]
	if !ok {
		return models.Routine{}, apperr.NotFound("routine", id)
	}
	return cloneRoutine(r), nil
}

func (s *JSONStore) GetAllRoutines() ([]models.Routine, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	routines := make([]models.Routine, 0, len(s.doc.Routines))
	for _, r := range s.doc.Routines {
		routines = append(routines, cloneRoutine(r))
	}
	sort.Slice(routines, func(i, j int) bool {
		if routines[i].Name != routines[j].Name {
			return routines[i].Name < routines[j].Name
		}
		return routines[i].ID < routines[j].ID
	})
	return routines, nil
}

func (s *JSONStore) UpdateRoutine(r models.Routine) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Routines[r.ID]; !ok {
		return apperr.NotFound("routine", r.ID)
	}
	s.doc.Routines[r.ID] = cloneRoutine(r)
	return s.save()
}

func (s *JSONStore) DeleteRoutine(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Routines[id]; !ok {
		return apperr.NotFound("routine", id)
	}
	delete(s.doc.Routines, id)
	return s.save()
}

func cloneRoutine(r models.Routine) models.Routine {
	r.Steps = append([]models.Step(nil), r.Steps...)
	return r
}

func (s *JSONStore) AddInstance(inst models.ScheduleInstance) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Instances[inst.ID]; ok {
		return fmt.Errorf("schedule %s already exists", inst.ID)
	}
	s.doc.Instances[inst.ID] = inst
	return s.save()
}

func (s *JSONStore) GetInstance(id string) (models.ScheduleInstance, error) {
	if err := s.loaded(); err != nil {
		return models.ScheduleInstance{}, err
	}
	inst, ok := s.doc.Instances[id]
	if !ok {
		return models.ScheduleInstance{}, apperr.NotFound("schedule", id)
	}
	return inst, nil
}

func (s *JSONStore) GetAllInstances() ([]models.ScheduleInstance, error) {
	return s.instancesWhere(func(models.ScheduleInstance) bool { return true })
}

func (s *JSONStore) GetInstancesForRoutine(routineID string) ([]models.ScheduleInstance, error) {
	return s.instancesWhere(func(inst models.ScheduleInstance) bool { return inst.RoutineID == routineID })
}

// instancesWhere returns matching instances ordered by start time, then id.
func (s *JSONStore) instancesWhere(keep func(models.ScheduleInstance) bool) ([]models.ScheduleInstance, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var out []models.ScheduleInstance
	for _, inst := range s.doc.Instances {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *JSONStore) UpdateInstance(inst models.ScheduleInstance) error {
	if err := s.loaded(); err != nil {
		return err
	}
	existing, ok := s.doc.Instances[inst.ID]
	if !ok {
		return apperr.NotFound("schedule", inst.ID)
	}
	inst.CreatedAt = existing.CreatedAt
	s.doc.Instances[inst.ID] = inst
	return s.save()
}

func (s *JSONStore) DeleteInstance(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Instances[id]; !ok {
		return apperr.NotFound("schedule", id)
	}
	delete(s.doc.Instances, id)
	return s.save()
}

func (s *JSONStore) DeleteInstancesForRoutine(routineID string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for id, inst := range s.doc.Instances {
		if inst.RoutineID == routineID {
			delete(s.doc.Instances, id)
		}
	}
	return s.save()
}

func (s *JSONStore) SaveAlarm(reg models.Registration) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Alarms[reg.ID] = reg
	return s.save()
}

func (s *JSONStore) GetAlarm(id string) (models.Registration, error) {
	if err := s.loaded(); err != nil {
		return models.Registration{}, err
	}
	reg, ok := s.doc.Alarms[id]
	if !ok {
		return models.Registration{}, apperr.NotFound("alarm", id)
	}
	return reg, nil
}

func (s *JSONStore) GetAllAlarms() ([]models.Registration, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	regs := make([]models.Registration, 0, len(s.doc.Alarms))
	for _, reg := range s.doc.Alarms {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

func (s *JSONStore) DeleteAlarm(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Alarms[id]; !ok {
		return apperr.NotFound("alarm", id)
	}
	delete(s.doc.Alarms, id)
	return s.save()
}
