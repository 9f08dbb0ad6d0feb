package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. The concrete error types below match
// their sentinel and carry the details.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("version conflict")
	ErrQuotaExceeded = errors.New("approval quota already met")
)

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: not found", e.Entity)
	}
	return fmt.Sprintf("%s %s: not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports an optimistic-concurrency version mismatch.
// Callers should reload and retry.
type ConflictError struct {
	Entity   string
	ID       string
	Expected int
	Actual   int
	Reason   string
}

func (e *ConflictError) Error() string {
	subject := e.Entity
	if e.ID != "" {
		subject += " " + e.ID
	}
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", subject, e.Reason)
	case e.Actual < 0:
		return fmt.Sprintf("%s: version %d is stale", subject, e.Expected)
	}
	return fmt.Sprintf("%s: expected version %d, found %d", subject, e.Expected, e.Actual)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// QuotaExceededError is returned when a submission is attempted on a
// subtask whose approval quota is already satisfied.
type QuotaExceededError struct {
	SubtaskID string
	Required  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("subtask %s: all %d required approvals are met; no further submissions accepted", e.SubtaskID, e.Required)
}

func (e *QuotaExceededError) Is(target error) bool { return target == ErrQuotaExceeded }

// IsRetryable reports whether the caller may reload and resubmit.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
