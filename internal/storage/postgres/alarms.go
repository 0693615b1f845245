package postgres

import (
	"database/sql"
	"errors"
	"time"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

const alarmColumns = `id, kind, fire_at, weekday, fire_time, title, step_name, step_index, created_at`

func scanAlarm(row rowScanner) (models.Registration, error) {
	var reg models.Registration
	var kind, tod string
	var fireAt sql.NullTime
	var weekday int
	if err := row.Scan(&reg.ID, &kind, &fireAt, &weekday, &tod, &reg.Title, &reg.StepName, &reg.StepIndex, &reg.CreatedAt); err != nil {
		return models.Registration{}, err
	}
	t, err := models.ParseTimeOfDay(tod)
	if err != nil {
		return models.Registration{}, err
	}
	reg.Kind = models.RegistrationKind(kind)
	reg.Weekday = time.Weekday(weekday)
	reg.Time = t
	if fireAt.Valid {
		reg.FireAt = fireAt.Time
	}
	return reg, nil
}

// SaveAlarm inserts the registration or replaces the one with the same id.
func (s *Store) SaveAlarm(reg models.Registration) error {
	var fireAt sql.NullTime
	if reg.Kind == models.RegistrationOnce {
		fireAt = sql.NullTime{Time: reg.FireAt.UTC(), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO alarms (`+alarmColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			fire_at = EXCLUDED.fire_at,
			weekday = EXCLUDED.weekday,
			fire_time = EXCLUDED.fire_time,
			title = EXCLUDED.title,
			step_name = EXCLUDED.step_name,
			step_index = EXCLUDED.step_index,
			created_at = EXCLUDED.created_at`,
		reg.ID, string(reg.Kind), fireAt, int(reg.Weekday), reg.Time.String(),
		reg.Title, reg.StepName, reg.StepIndex, reg.CreatedAt.UTC())
	return err
}

func (s *Store) GetAlarm(id string) (models.Registration, error) {
	reg, err := scanAlarm(s.db.QueryRow(`SELECT `+alarmColumns+` FROM alarms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Registration{}, apperr.NotFound("alarm", id)
		}
		return models.Registration{}, err
	}
	return reg, nil
}

func (s *Store) GetAllAlarms() ([]models.Registration, error) {
	rows, err := s.db.Query(`SELECT ` + alarmColumns + ` FROM alarms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		reg, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (s *Store) DeleteAlarm(id string) error {
	res, err := s.db.Exec(`DELETE FROM alarms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("alarm", id)
	}
	return nil
}
