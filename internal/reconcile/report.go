package reconcile

import (
	"fmt"
	"time"

	"github.com/julianstephens/routines/internal/models"
)

// ItemResult is the outcome of registering one alarm item.
type ItemResult struct {
	Item models.AlarmItem
	Kind models.RegistrationKind
	// At is set for one-time registrations.
	At time.Time
	// Weekday is the day a weekly registration fires on.
	Weekday time.Weekday
	Err     error
}

// Report describes one reconciliation of a schedule instance. Per-item
// registration failures never abort the batch; they are collected in Results.
type Report struct {
	InstanceID string
	State      models.ScheduleState
	// Cancelled counts the previously registered alarms removed first.
	Cancelled int
	Results   []ItemResult
	// Err is set when cancellation was incomplete or expansion was skipped,
	// for example because the routine no longer exists.
	Err error
}

func (r Report) Total() int {
	return len(r.Results)
}

func (r Report) Scheduled() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return r.Total() - r.Scheduled()
}

// OK reports whether every step was registered and nothing was skipped.
func (r Report) OK() bool {
	return r.Err == nil && r.Failed() == 0
}

// Errors returns the per-item registration errors in order.
func (r Report) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// Summary formats e.g. "5 of 7 reminders scheduled".
func (r Report) Summary() string {
	switch {
	case r.State == models.StateDisabled && r.Err != nil:
		return fmt.Sprintf("%d reminders cancelled: %v", r.Cancelled, r.Err)
	case r.State == models.StateDisabled:
		return fmt.Sprintf("%d reminders cancelled", r.Cancelled)
	case r.Err != nil && r.Total() == 0:
		return fmt.Sprintf("no reminders scheduled: %v", r.Err)
	default:
		return fmt.Sprintf("%d of %d reminders scheduled", r.Scheduled(), r.Total())
	}
}

// Merge totals a batch of reports.
func Merge(reports []Report) (scheduled, total int) {
	for _, r := range reports {
		scheduled += r.Scheduled()
		total += r.Total()
	}
	return scheduled, total
}
