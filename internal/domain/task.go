package domain

import "time"

// Task is a client-facing work request submitted by a Manager.
type Task struct {
	ID           string
	Title        string
	ClientName   string
	FormID       string
	DepartmentID string
	SubmittedBy  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	ArchivedAt   *time.Time
}

// IsTerminal reports whether the task is completed or archived.
func (t *Task) IsTerminal() bool {
	return t.CompletedAt != nil || t.ArchivedAt != nil
}

// SyncCompletion sets or clears CompletedAt from the statuses of the task's
// subtasks. A task with no subtasks is never complete. It returns true when
// CompletedAt changed.
func (t *Task) SyncCompletion(subtasks []*Subtask, now time.Time) bool {
	done := len(subtasks) > 0
	for _, st := range subtasks {
		if !st.Status.IsTerminal() {
			done = false
			break
		}
	}
	switch {
	case done && t.CompletedAt == nil:
		t.CompletedAt = &now
		t.UpdatedAt = now
		return true
	case !done && t.CompletedAt != nil:
		t.CompletedAt = nil
		t.UpdatedAt = now
		return true
	}
	return false
}

// Archive closes the task explicitly.
func (t *Task) Archive(now time.Time) error {
	if t.ArchivedAt != nil {
		return invalid("task", "task %s is already archived", t.ID)
	}
	t.ArchivedAt = &now
	t.UpdatedAt = now
	return nil
}
