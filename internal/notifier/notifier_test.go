package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routines/internal/constants"
	"github.com/julianstephens/routines/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func withProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestText(t *testing.T) {
	alarm := models.FiredAlarm{ID: "routine_a_step_1_monday", Title: "Morning run", StepName: "Run"}

	assert.Equal(t, "Start: Morning run", Text(alarm, &models.AlarmInfo{StepIndex: 0}))
	assert.Equal(t, "Morning run - Run", Text(alarm, &models.AlarmInfo{StepIndex: 1}))
	assert.Equal(t, "Morning run", Text(alarm, nil))

	alarm.StepName = ""
	assert.Equal(t, "Morning run - step 3", Text(alarm, &models.AlarmInfo{StepIndex: 2}))

	assert.Equal(t, "Routine", Text(models.FiredAlarm{}, nil))
}

func TestGetTrayAppConfigDir(t *testing.T) {
	dir := withConfigDir(t)

	got, err := GetTrayAppConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, constants.TrayAppIdentifier), got)

	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	require.NoError(t, os.MkdirAll(trayDir, 0755))
	settings := `{"settings": {"lockfile_dir": "/custom/routines/dir"}}`
	require.NoError(t, os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0644))

	got, err = GetTrayAppConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/routines/dir", got)

	require.NoError(t, os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte("{not json"), 0644))
	got, err = GetTrayAppConfigDir()
	require.NoError(t, err)
	assert.Equal(t, trayDir, got)
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	withProcess(t, "routines-tray")
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	_, _, err := findAndValidateTrayProcess(lockfile)
	assert.ErrorIs(t, err, ErrTrayNotRunning)

	bad := map[string]string{
		"old two-part format": "8080|12345",
		"garbage":             "invalid",
		"empty secret":        "8080|12345|",
		"empty port":          "|12345|secret",
		"non-numeric port":    "http|12345|secret",
		"port out of range":   "70000|12345|secret",
		"non-numeric pid":     "8080|abc|secret",
	}
	for name, content := range bad {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(lockfile, []byte(content), 0644))
			_, _, err := findAndValidateTrayProcess(lockfile)
			assert.Error(t, err)
		})
	}

	require.NoError(t, os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644))
	port, secret, err := findAndValidateTrayProcess(lockfile)
	require.NoError(t, err)
	assert.Equal(t, "8080", port)
	assert.Equal(t, "s3cret", secret)
}

func TestFindAndValidateTrayProcess_WrongProcess(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
	require.NoError(t, os.WriteFile(lockfile, []byte("8080|12345|s3cret"), 0644))

	withProcess(t, "bash")
	_, _, err := findAndValidateTrayProcess(lockfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not routines-tray")

	withProcess(t, "")
	_, _, err = findAndValidateTrayProcess(lockfile)
	assert.ErrorIs(t, err, ErrTrayNotRunning)
}

func TestTrayNotify(t *testing.T) {
	var received WebhookPayload
	var gotSecret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get(constants.NotifierSecretHeader)
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	dir := withConfigDir(t)
	withProcess(t, "routines-tray")
	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	require.NoError(t, os.MkdirAll(trayDir, 0755))
	lock := fmt.Sprintf("%s|4242|topsecret", u.Port())
	require.NoError(t, os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644))

	alarm := models.FiredAlarm{ID: "routine_a_step_0_monday", Title: "Morning run"}
	require.NoError(t, NewTray().Notify(alarm, &models.AlarmInfo{InstanceID: "a"}))

	assert.Equal(t, "topsecret", gotSecret)
	assert.Equal(t, "Start: Morning run", received.Text)
	assert.Equal(t, uint32(constants.NotificationDurationMs), received.DurationMs)
	assert.Equal(t, "routine_a_step_0_monday", received.AlarmID)
}

func TestTrayPost_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad secret", http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewTray().post(server.URL, "wrong", WebhookPayload{Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "bad secret")
}

func TestConsoleNotify(t *testing.T) {
	var buf bytes.Buffer
	alarm := models.FiredAlarm{
		Title:    "Morning run",
		StepName: "Run",
		FiredAt:  time.Date(2026, time.March, 2, 7, 5, 0, 0, time.UTC),
	}

	require.NoError(t, NewConsole(&buf).Notify(alarm, &models.AlarmInfo{StepIndex: 1}))
	assert.Equal(t, "🔔 [7:05 AM] Morning run - Run\n", buf.String())
}

type failingSender struct{ calls int }

func (f *failingSender) Notify(models.FiredAlarm, *models.AlarmInfo) error {
	f.calls++
	return errors.New("unavailable")
}

func TestFallback(t *testing.T) {
	var buf bytes.Buffer
	primary := &failingSender{}

	err := Fallback{Primary: primary, Secondary: NewConsole(&buf)}.Notify(models.FiredAlarm{Title: "X"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Contains(t, buf.String(), "X")

	err = Fallback{Primary: primary}.Notify(models.FiredAlarm{Title: "X"}, nil)
	assert.EqualError(t, err, "unavailable")
}
