package sqlite

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
	var kind, tod, createdAt string
	var fireAt sql.NullString
	var weekday int
	if err := row.Scan(&reg.ID, &kind, &fireAt, &weekday, &tod, &reg.Title, &reg.StepName, &reg.StepIndex, &createdAt); err != nil {
		return models.Registration{}, err
	}

	reg.Kind = models.RegistrationKind(kind)
	reg.Weekday = time.Weekday(weekday)
	t, err := models.ParseTimeOfDay(tod)
	if err != nil {
		return models.Registration{}, err
	}
	reg.Time = t
	if fireAt.Valid {
		if reg.FireAt, err = parseTime(fireAt.String); err != nil {
			return models.Registration{}, err
		}
	}
	if reg.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Registration{}, err
	}
	return reg, nil
}

// SaveAlarm inserts or replaces the registration with the same id.
func (s *Store) SaveAlarm(reg models.Registration) error {
	var fireAt sql.NullString
	if reg.Kind == models.RegistrationOnce {
		fireAt = sql.NullString{String: formatTime(reg.FireAt), Valid: true}
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO alarms (`+alarmColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, string(reg.Kind), fireAt, int(reg.Weekday), reg.Time.String(),
		reg.Title, reg.StepName, reg.StepIndex, formatTime(reg.CreatedAt))
	return err
}

func (s *Store) GetAlarm(id string) (models.Registration, error) {
	reg, err := scanAlarm(s.db.QueryRow(`SELECT `+alarmColumns+` FROM alarms WHERE id = ?`, id))
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
	res, err := s.db.Exec(`DELETE FROM alarms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("alarm", id)
	}
	return nil
}
