package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

func (s *Store) AddRoutine(r models.Routine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO routines (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		r.ID, r.Name, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if err := insertSteps(tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) UpdateRoutine(r models.Routine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE routines SET name = $1, updated_at = $2 WHERE id = $3`,
		r.Name, r.UpdatedAt.UTC(), r.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("routine", r.ID)
	}

	if _, err := tx.Exec(`DELETE FROM routine_steps WHERE routine_id = $1`, r.ID); err != nil {
		return err
	}
	if err := insertSteps(tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSteps(tx *sql.Tx, r models.Routine) error {
	stmt, err := tx.Prepare(`INSERT INTO routine_steps (routine_id, position, id, name, duration_min) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, step := range r.Steps {
		if _, err := stmt.Exec(r.ID, i, step.ID, step.Name, step.Duration.TotalMinutes()); err != nil {
			return fmt.Errorf("failed to save step %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) GetRoutine(id string) (models.Routine, error) {
	var r models.Routine
	err := s.db.QueryRow(`SELECT id, name, created_at, updated_at FROM routines WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Routine{}, apperr.NotFound("routine", id)
		}
		return models.Routine{}, err
	}

	steps, err := s.stepsFor(id)
	if err != nil {
		return models.Routine{}, err
	}
	r.Steps = steps[id]
	return r, nil
}

func (s *Store) GetAllRoutines() ([]models.Routine, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at, updated_at FROM routines ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		var r models.Routine
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	steps, err := s.stepsFor("")
	if err != nil {
		return nil, err
	}
	for i := range routines {
		routines[i].Steps = steps[routines[i].ID]
	}
	return routines, nil
}

func (s *Store) stepsFor(routineID string) (map[string][]models.Step, error) {
	query := `SELECT routine_id, id, name, duration_min FROM routine_steps`
	var args []interface{}
	if routineID != "" {
		query += ` WHERE routine_id = $1`
		args = append(args, routineID)
	}
	query += ` ORDER BY routine_id, position`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.Step)
	for rows.Next() {
		var id string
		var step models.Step
		var minutes int
		if err := rows.Scan(&id, &step.ID, &step.Name, &minutes); err != nil {
			return nil, err
		}
		step.Duration = models.Duration(minutes)
		out[id] = append(out[id], step)
	}
	return out, rows.Err()
}

// DeleteRoutine removes the routine; its steps go with it through the
// foreign key cascade.
func (s *Store) DeleteRoutine(id string) error {
	res, err := s.db.Exec(`DELETE FROM routines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("routine", id)
	}
	return nil
}
