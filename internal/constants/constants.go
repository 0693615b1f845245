package constants

import "time"

const (
	AppName            = "routines"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/routines/routines.db"
	Version            = "v0.3.0"

	// ConnectionEnvVar overrides the configured storage target when set.
	ConnectionEnvVar = "ROUTINES_DB_CONNECTION"
	// EnvFileName is loaded from the config directory, if present.
	EnvFileName = ".env"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DisplayTimeFormat is used when presenting alarm times to the user
	DisplayTimeFormat = "3:04 PM"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "routines-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "routines-notifier.lock"
	NotifierSecretHeader   = "X-Routines-Secret"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.routines"
	TrayProcessPrefix      = "routines-tray"

	// Alarm tick constants
	DefaultTickWindow = time.Minute
	MaxTickWindow     = 7 * 24 * time.Hour
	TestAlarmDelay    = 2 * time.Second
	TestAlarmPrefix   = "test_"

	// Log rotation
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// PostgresMaxOpenConns caps the pool for both open and idle connections
	PostgresMaxOpenConns = 25

	// Settings defaults
	DefaultNotificationsEnabled = true
)
