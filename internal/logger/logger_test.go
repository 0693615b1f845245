package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("Test info message", "instance", "abc")

	if _, err := os.Stat(LogPath(configDir)); os.IsNotExist(err) {
		t.Errorf("Log file was not created at %s", LogPath(configDir))
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info level", false, false},
		{"debug level", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { Logger = nil })
			var buf bytes.Buffer
			if err := Init(Config{Debug: tt.debug, ConfigDir: t.TempDir(), Extra: &buf}); err != nil {
				t.Fatalf("Init: %v", err)
			}

			Debug("debug line")
			Warn("warn line", "alarm", "routine_x_step_0_onetime")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "warn line") || !strings.Contains(out, "routine_x_step_0_onetime") {
				t.Errorf("warn record missing from output:\n%s", out)
			}
		})
	}
}

func TestLoggingWithoutInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Must not panic when the logger was never initialized
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
