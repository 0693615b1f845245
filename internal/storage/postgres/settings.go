package postgres

import (
	"fmt"
	"time"

	"github.com/julianstephens/routines/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "notifications_enabled":
			settings.NotificationsEnabled = value == "true"
		case "last_tick":
			if value != "" {
				t, err := time.Parse(time.RFC3339Nano, value)
				if err != nil {
					return models.Settings{}, fmt.Errorf("parsing last_tick: %w", err)
				}
				settings.LastTick = t
			}
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("notifications_enabled", fmt.Sprintf("%v", settings.NotificationsEnabled)); err != nil {
		return err
	}
	lastTick := ""
	if !settings.LastTick.IsZero() {
		lastTick = settings.LastTick.UTC().Format(time.RFC3339Nano)
	}
	if _, err := stmt.Exec("last_tick", lastTick); err != nil {
		return err
	}

	return tx.Commit()
}
