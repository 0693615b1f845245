package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/routines/internal/alarmid"
	apperr "github.com/julianstephens/routines/internal/errors"
	"github.com/julianstephens/routines/internal/models"
)

// ConflictType represents the type of consistency problem found by Check
type ConflictType string

const (
	ConflictDuplicateRoutineName ConflictType = "duplicate_routine_name"
	ConflictMissingRoutine       ConflictType = "missing_routine"
	ConflictEmptyRoutine         ConflictType = "empty_routine"
	ConflictOrphanedAlarm        ConflictType = "orphaned_alarm"
	ConflictMissingAlarm         ConflictType = "missing_alarm"
)

// Conflict represents one detected inconsistency
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string // Routine, instance or alarm ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks user input at the boundary and audits stored state.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateRoutine rejects routines that cannot be expanded: an empty name, no
// steps, a step without a name or a step shorter than one minute.
func (v *Validator) ValidateRoutine(r models.Routine) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("name", "routine name cannot be empty")
	}
	if len(r.Steps) == 0 {
		return apperr.Validation("steps", "routine %q must have at least one step", r.Name)
	}
	for i, step := range r.Steps {
		if err := validateStep(fmt.Sprintf("steps[%d].", i), step); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStep checks a single step.
func (v *Validator) ValidateStep(s models.Step) error {
	return validateStep("", s)
}

func validateStep(prefix string, s models.Step) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperr.Validation(prefix+"name", "step name cannot be empty")
	}
	if s.Duration <= 0 {
		return apperr.Validation(prefix+"duration", "step %q must last at least one minute", s.Name)
	}
	return nil
}

// ValidateInstance checks a schedule instance before it is saved. The routine
// reference is resolved by the caller; only its presence is checked here.
func (v *Validator) ValidateInstance(inst models.ScheduleInstance) error {
	if strings.TrimSpace(inst.RoutineID) == "" {
		return apperr.Validation("routine_id", "schedule must reference a routine")
	}
	if strings.Contains(inst.ID, alarmid.StepSeparator) {
		return apperr.Validation("id", "schedule id cannot contain %q", alarmid.StepSeparator)
	}
	return nil
}

// Check audits stored routines, schedule instances and registered alarm ids
// for problems that reconciliation would otherwise silently skip.
func (v *Validator) Check(routines []models.Routine, instances []models.ScheduleInstance, registered []string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Routine, len(routines))
	nameCount := make(map[string][]string)
	for _, r := range routines {
		byID[r.ID] = r
		if r.Name == "" {
			continue
		}
		nameCount[r.Name] = append(nameCount[r.Name], r.ID)
		if len(r.Steps) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyRoutine,
				Description: fmt.Sprintf("Routine \"%s\" has no steps and will never fire", r.Name),
				IDs:         []string{r.ID},
			})
		}
	}

	names := make([]string, 0, len(nameCount))
	for name := range nameCount {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := nameCount[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateRoutineName,
				Description: fmt.Sprintf("Duplicate routine name: \"%s\" (IDs: %v)", name, ids),
				IDs:         ids,
			})
		}
	}

	known := make(map[string]models.ScheduleInstance, len(instances))
	for _, inst := range instances {
		known[inst.ID] = inst
		if _, ok := byID[inst.RoutineID]; !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingRoutine,
				Description: fmt.Sprintf("Schedule %s references missing routine %s", inst.ID, inst.RoutineID),
				IDs:         []string{inst.ID, inst.RoutineID},
			})
		}
	}

	registeredBy := make(map[string]int)
	for _, id := range registered {
		info, ok := alarmid.Parse(id)
		if !ok {
			continue
		}
		inst, exists := known[info.InstanceID]
		if !exists || !inst.Enabled {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanedAlarm,
				Description: fmt.Sprintf("Alarm %s belongs to no enabled schedule", id),
				IDs:         []string{id},
			})
			continue
		}
		registeredBy[info.InstanceID]++
	}

	for _, inst := range instances {
		if !inst.Enabled {
			continue
		}
		r, ok := byID[inst.RoutineID]
		if !ok || len(r.Steps) == 0 {
			continue
		}
		if registeredBy[inst.ID] == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingAlarm,
				Description: fmt.Sprintf("Schedule %s is enabled but has no registered alarms", inst.ID),
				IDs:         []string{inst.ID},
			})
		}
	}

	return result
}
