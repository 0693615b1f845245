// Package notifier presents fired alarms to the user, either through the
// desktop tray app's local webhook or on a terminal.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/routines/internal/constants"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray app owns the lockfile.
var ErrTrayNotRunning = errors.New("routines tray app is not running")

// Text formats the notification line for a fired alarm. The first step of a
// routine reads "Start: <title>"; later steps read "<title> - <step>".
// Non-routine alarms show their title as is.
func Text(alarm models.FiredAlarm, info *models.AlarmInfo) string {
	title := alarm.Title
	if title == "" {
		title = "Routine"
	}
	switch {
	case info == nil:
		return title
	case info.StepIndex == 0:
		return "Start: " + title
	case alarm.StepName == "":
		return fmt.Sprintf("%s - step %d", title, info.StepIndex+1)
	default:
		return fmt.Sprintf("%s - %s", title, alarm.StepName)
	}
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
	AlarmID    string `json:"alarm_id,omitempty"`
}

// Tray delivers notifications to the tray app over its loopback webhook.
type Tray struct {
	client *http.Client
}

func NewTray() *Tray {
	return &Tray{client: &http.Client{Timeout: 5 * time.Second}}
}

func (n *Tray) Notify(alarm models.FiredAlarm, info *models.AlarmInfo) error {
	return n.Send(WebhookPayload{
		Text:       Text(alarm, info),
		DurationMs: constants.NotificationDurationMs,
		AlarmID:    alarm.ID,
	})
}

// Send posts payload to the running tray app.
func (n *Tray) Send(payload WebhookPayload) error {
	trayDir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return n.post(fmt.Sprintf("http://127.0.0.1:%s", port), secret, payload)
}

func (n *Tray) post(url, secret string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.NotifierSecretHeader, secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}

// GetTrayAppConfigDir returns the directory holding the tray app's lockfile.
// The tray app may point it elsewhere through lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Debug("Ignoring unreadable tray settings", "error", err)
		return trayConfigDir, nil
	}
	if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayConfigDir, nil
}

// findAndValidateTrayProcess reads a "port|pid|secret" lockfile and checks
// that pid is a live tray process.
func findAndValidateTrayProcess(lockfilePath string) (port, secret string, err error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port = strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}

	secret = strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayProcessPrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayProcessPrefix, process.Executable())
	}

	return port, secret, nil
}

// Console writes notifications to w, one line per alarm.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(alarm models.FiredAlarm, info *models.AlarmInfo) error {
	stamp := alarm.FiredAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	_, err := fmt.Fprintf(c.w, "🔔 [%s] %s\n", stamp.Format(constants.DisplayTimeFormat), Text(alarm, info))
	return err
}

// Sender is anything that can present a fired alarm.
type Sender interface {
	Notify(alarm models.FiredAlarm, info *models.AlarmInfo) error
}

// Fallback tries Primary and falls back to Secondary when it fails.
type Fallback struct {
	Primary   Sender
	Secondary Sender
}

func (f Fallback) Notify(alarm models.FiredAlarm, info *models.AlarmInfo) error {
	err := f.Primary.Notify(alarm, info)
	if err == nil {
		return nil
	}
	logger.Debug("Primary notifier failed, falling back", "alarm", alarm.ID, "error", err)
	if f.Secondary == nil {
		return err
	}
	return f.Secondary.Notify(alarm, info)
}
