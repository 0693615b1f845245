package models

import "time"

// Settings represents application-wide settings
type Settings struct {
	NotificationsEnabled bool      `json:"notifications_enabled"` // whether fired alarms are delivered to the tray
	LastTick             time.Time `json:"last_tick"`             // upper bound of the last alarm polling window
}
