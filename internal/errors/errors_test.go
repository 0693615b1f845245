package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: stderrors.New("boom"), expected: "Error: boom"},
		{name: "not found", err: NotFound("routine", "r1"), expected: "Error: routine not found: r1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("%d of %d reminders scheduled", 5, 7)
	if got != "Error: 5 of 7 reminders scheduled" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestErrorKindsMatchSentinels(t *testing.T) {
	cause := stderrors.New("permission denied")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", Validation("name", "cannot be empty"), ErrValidation},
		{"registration", &RegistrationError{AlarmID: "routine_a_step_0_onetime", Err: cause}, ErrRegistration},
		{"not found", NotFound("schedule", "s1"), ErrNotFound},
		{"decode", &DecodeError{AlarmID: "x", Reason: "missing prefix"}, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !stderrors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.sentinel)
			}
		})
	}
}

func TestRegistrationErrorUnwrapsCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := &RegistrationError{AlarmID: "a", Err: cause}
	if !stderrors.Is(err, cause) {
		t.Error("RegistrationError should unwrap to its cause")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("load: %w", NotFound("routine", "r"))) {
		t.Error("IsNotFound() = false for wrapped NotFoundError")
	}
	if IsNotFound(stderrors.New("other")) {
		t.Error("IsNotFound() = true for unrelated error")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validation("steps[1].name", "cannot be empty")
	if err.Error() != "steps[1].name: cannot be empty" {
		t.Errorf("unexpected message %q", err.Error())
	}
	bare := &ValidationError{Message: "routine has no steps"}
	if bare.Error() != "routine has no steps" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
