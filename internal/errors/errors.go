// Package errors defines the error kinds shared by the scheduling core and the
// CLI, plus helpers for printing them consistently.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/routines/internal/logger"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = stderrors.New("validation failed")
	// ErrRegistration matches any *RegistrationError.
	ErrRegistration = stderrors.New("alarm registration failed")
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = stderrors.New("not found")
	// ErrDecode matches any *DecodeError.
	ErrDecode = stderrors.New("not a routine alarm")
)

// ValidationError rejects user input before any state is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validation builds a ValidationError for field.
func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RegistrationError reports that the alarm timer refused one alarm.
type RegistrationError struct {
	AlarmID string
	Err     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register alarm %s: %v", e.AlarmID, e.Err)
}

func (e *RegistrationError) Is(target error) bool { return target == ErrRegistration }

func (e *RegistrationError) Unwrap() error { return e.Err }

// NotFoundError reports a missing routine, schedule or alarm record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// DecodeError reports a malformed alarm id. Callers treat it as an ordinary,
// non-routine alarm.
type DecodeError struct {
	AlarmID string
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode alarm id %q: %s", e.AlarmID, e.Reason)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
