package repository

import (
	"context"

	"github.com/alexanderramin/quorum/internal/domain"
)

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
}

type SubtaskRepo interface {
	Create(ctx context.Context, s *domain.Subtask) error
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error)
	ListByTeamLead(ctx context.Context, teamLeadID string) ([]*domain.Subtask, error)
	// Update writes s if its stored version still equals s.Version and
	// bumps s.Version on success.
	Update(ctx context.Context, s *domain.Subtask) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetActive(ctx context.Context, subtaskID, memberID string, role domain.MemberRole) (*domain.Assignment, error)
	ListActive(ctx context.Context, subtaskID string, role domain.MemberRole) ([]*domain.Assignment, error)
	ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.Assignment, error)
	// Close soft-closes an open assignment. Closing an already closed row
	// returns a not-found error.
	Close(ctx context.Context, a *domain.Assignment) error
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.Submission, error)
	ListByEmployee(ctx context.Context, subtaskID, employeeID string) ([]*domain.Submission, error)
	// Update writes s if its stored version still equals s.Version and
	// bumps s.Version on success.
	Update(ctx context.Context, s *domain.Submission) error
}

type TransitionRepo interface {
	Append(ctx context.Context, tr *domain.TierTransition) error
	ListBySubmission(ctx context.Context, submissionID string) ([]*domain.TierTransition, error)
}

type RosterEventRepo interface {
	Append(ctx context.Context, e *domain.RosterEvent) error
	ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.RosterEvent, error)
}

type FeedbackRepo interface {
	Append(ctx context.Context, e *domain.FeedbackEntry) error
	GetByID(ctx context.Context, id string) (*domain.FeedbackEntry, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.FeedbackEntry, error)
}

type SequenceRepo interface {
	Next(ctx context.Context, scopeID string) (int, error)
}
