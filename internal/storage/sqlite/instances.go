package sqlite

import (
	"database/sql"
	"errors"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

const instanceColumns = `id, routine_id, name, start_time, days, enabled, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInstance(row rowScanner) (models.ScheduleInstance, error) {
	var inst models.ScheduleInstance
	var start, createdAt string
	var days int
	var enabled bool
	if err := row.Scan(&inst.ID, &inst.RoutineID, &inst.Name, &start, &days, &enabled, &createdAt); err != nil {
		return models.ScheduleInstance{}, err
	}

	tod, err := models.ParseTimeOfDay(start)
	if err != nil {
		return models.ScheduleInstance{}, err
	}
	inst.StartTime = tod
	inst.Days = models.Weekdays(days)
	inst.Enabled = enabled
	if inst.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.ScheduleInstance{}, err
	}
	return inst, nil
}

func (s *Store) AddInstance(inst models.ScheduleInstance) error {
	_, err := s.db.Exec(`INSERT INTO instances (`+instanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inst.ID, inst.RoutineID, inst.Name, inst.StartTime.String(), int(inst.Days), inst.Enabled, formatTime(inst.CreatedAt))
	return err
}

func (s *Store) GetInstance(id string) (models.ScheduleInstance, error) {
	row := s.db.QueryRow(`SELECT `+instanceColumns+` FROM instances WHERE id = ?`, id)
	inst, err := scanInstance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduleInstance{}, apperr.NotFound("schedule", id)
		}
		return models.ScheduleInstance{}, err
	}
	return inst, nil
}

func (s *Store) GetAllInstances() ([]models.ScheduleInstance, error) {
	return s.queryInstances(`SELECT ` + instanceColumns + ` FROM instances ORDER BY start_time, id`)
}

func (s *Store) GetInstancesForRoutine(routineID string) ([]models.ScheduleInstance, error) {
	return s.queryInstances(`SELECT `+instanceColumns+` FROM instances WHERE routine_id = ? ORDER BY start_time, id`, routineID)
}

func (s *Store) queryInstances(query string, args ...interface{}) ([]models.ScheduleInstance, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []models.ScheduleInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

func (s *Store) UpdateInstance(inst models.ScheduleInstance) error {
	res, err := s.db.Exec(`UPDATE instances SET routine_id = ?, name = ?, start_time = ?, days = ?, enabled = ? WHERE id = ?`,
		inst.RoutineID, inst.Name, inst.StartTime.String(), int(inst.Days), inst.Enabled, inst.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("schedule", inst.ID)
	}
	return nil
}

func (s *Store) DeleteInstance(id string) error {
	res, err := s.db.Exec(`DELETE FROM instances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("schedule", id)
	}
	return nil
}

func (s *Store) DeleteInstancesForRoutine(routineID string) error {
	_, err := s.db.Exec(`DELETE FROM instances WHERE routine_id = ?`, routineID)
	return err
}
