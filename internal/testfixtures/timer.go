package testfixtures

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/routines/internal/models"
)

// ErrPermissionDenied mimics a timer refusing exact alarms.
var ErrPermissionDenied = errors.New("exact alarm permission denied")

// TimerEntry is one alarm held by a MemoryTimer.
type TimerEntry struct {
	Item    models.AlarmItem
	Kind    models.RegistrationKind
	At      time.Time
	Weekday time.Weekday
}

// MemoryTimer is an in-memory alarm timer with per-id failure injection.
type MemoryTimer struct {
	mu          sync.Mutex
	entries     map[string]TimerEntry
	failures    map[string]error
	listErr     error
	registers   int
	cancelCalls []string
}

func NewMemoryTimer() *MemoryTimer {
	return &MemoryTimer{
		entries:  make(map[string]TimerEntry),
		failures: make(map[string]error),
	}
}

func (t *MemoryTimer) RegisterOnce(item models.AlarmItem, at time.Time) error {
	return t.register(TimerEntry{Item: item, Kind: models.RegistrationOnce, At: at})
}

func (t *MemoryTimer) RegisterWeekly(item models.AlarmItem, day time.Weekday) error {
	return t.register(TimerEntry{Item: item, Kind: models.RegistrationWeekly, Weekday: day})
}

func (t *MemoryTimer) register(entry TimerEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.registers++
	if err, ok := t.failures[entry.Item.ID]; ok {
		return err
	}
	t.entries[entry.Item.ID] = entry
	return nil
}

func (t *MemoryTimer) Cancel(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelCalls = append(t.cancelCalls, id)
	delete(t.entries, id)
	return nil
}

// Registered returns the held ids in sorted order.
func (t *MemoryTimer) Registered() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listErr != nil {
		return nil, t.listErr
	}
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// FailOn makes every registration of id return err. A nil err clears it.
func (t *MemoryTimer) FailOn(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		delete(t.failures, id)
		return
	}
	t.failures[id] = err
}

// FailListing makes Registered return err.
func (t *MemoryTimer) FailListing(err error) {
	t.mu.Lock()
	t.listErr = err
	t.mu.Unlock()
}

// Seed registers entries directly, bypassing failure injection.
func (t *MemoryTimer) Seed(entries ...TimerEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range entries {
		t.entries[e.Item.ID] = e
	}
}

func (t *MemoryTimer) Entry(id string) (TimerEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	return e, ok
}

func (t *MemoryTimer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// RegisterCalls counts registration attempts, failed ones included.
func (t *MemoryTimer) RegisterCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.registers
}

// CancelledIDs lists every id passed to Cancel, in call order.
func (t *MemoryTimer) CancelledIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.cancelCalls...)
}

// Reset clears call counters without touching held entries.
func (t *MemoryTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registers = 0
	t.cancelCalls = nil
}
