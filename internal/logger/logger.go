// Package logger is the process-wide structured logger. Until Init runs every
// call is a no-op, so library code may log freely from tests.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/routines/internal/constants"
)

// Logger is nil until Init succeeds.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Extra receives a copy of every record, in addition to the log file.
	Extra io.Writer
}

// LogPath is where Init writes for the given config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init opens the rotated log file under cfg.ConfigDir and installs Logger.
// Debug mode lowers the level, reports callers and mirrors to stderr.
func Init(cfg Config) error {
	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	writers := []io.Writer{&lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}}
	if cfg.Extra != nil {
		writers = append(writers, cfg.Extra)
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
		writers = append(writers, os.Stderr)
	}

	Logger = log.NewWithOptions(io.MultiWriter(writers...), log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
	})
	return nil
}

func with(fn func(*log.Logger)) {
	if Logger != nil {
		fn(Logger)
	}
}

func Debug(msg string, keyvals ...interface{}) {
	with(func(l *log.Logger) { l.Debug(msg, keyvals...) })
}

func Info(msg string, keyvals ...interface{}) {
	with(func(l *log.Logger) { l.Info(msg, keyvals...) })
}

func Warn(msg string, keyvals ...interface{}) {
	with(func(l *log.Logger) { l.Warn(msg, keyvals...) })
}

func Error(msg string, keyvals ...interface{}) {
	with(func(l *log.Logger) { l.Error(msg, keyvals...) })
}
