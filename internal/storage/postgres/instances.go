package postgres

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
	var start string
	var days int
	if err := row.Scan(&inst.ID, &inst.RoutineID, &inst.Name, &start, &days, &inst.Enabled, &inst.CreatedAt); err != nil {
		return models.ScheduleInstance{}, err
	}
	tod, err := models.ParseTimeOfDay(start)
	if err != nil {
		return models.ScheduleInstance{}, err
	}
	inst.StartTime = tod
	inst.Days = models.Weekdays(days)
	return inst, nil
}

func (s *Store) AddInstance(inst models.ScheduleInstance) error {
	_, err := s.db.Exec(`INSERT INTO instances (`+instanceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inst.ID, inst.RoutineID, inst.Name, inst.StartTime.String(), int(inst.Days), inst.Enabled, inst.CreatedAt.UTC())
	return err
}

func (s *Store) GetInstance(id string) (models.ScheduleInstance, error) {
	inst, err := scanInstance(s.db.QueryRow(`SELECT `+instanceColumns+` FROM instances WHERE id = $1`, id))
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
	return s.queryInstances(`SELECT `+instanceColumns+` FROM instances WHERE routine_id = $1 ORDER BY start_time, id`, routineID)
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
	res, err := s.db.Exec(`UPDATE instances SET routine_id = $1, name = $2, start_time = $3, days = $4, enabled = $5 WHERE id = $6`,
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
	res, err := s.db.Exec(`DELETE FROM instances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("schedule", id)
	}
	return nil
}

func (s *Store) DeleteInstancesForRoutine(routineID string) error {
	_, err := s.db.Exec(`DELETE FROM instances WHERE routine_id = $1`, routineID)
	return err
}
