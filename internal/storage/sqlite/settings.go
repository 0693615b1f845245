package sqlite

import (
	"fmt"

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
			t, err := parseTime(value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing last_tick: %w", err)
			}
			settings.LastTick = t
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

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("notifications_enabled", fmt.Sprintf("%v", settings.NotificationsEnabled)); err != nil {
		return err
	}
	lastTick := ""
	if !settings.LastTick.IsZero() {
		lastTick = formatTime(settings.LastTick)
	}
	if _, err := stmt.Exec("last_tick", lastTick); err != nil {
		return err
	}

	return tx.Commit()
}
