package service

import (
	"context"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
)

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Task, error)
	Archive(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
}

type SubtaskService interface {
	Create(ctx context.Context, in CreateSubtaskInput) (*domain.Subtask, error)
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error)
	ListByTeamLead(ctx context.Context, teamLeadID string) ([]*domain.Subtask, error)
	Cancel(ctx context.Context, in CancelSubtaskInput) (*domain.Subtask, error)
}

type RosterService interface {
	Assign(ctx context.Context, in AssignInput) (*RosterResult, error)
	Remove(ctx context.Context, in RemoveInput) (*RosterResult, error)
	AssignTeamLead(ctx context.Context, subtaskID, teamLeadID string, actor domain.Actor) (*RosterResult, error)
	ActiveRoster(ctx context.Context, subtaskID string) ([]*domain.Assignment, error)
	Assignments(ctx context.Context, subtaskID string) ([]*domain.Assignment, error)
	History(ctx context.Context, subtaskID string) ([]*domain.RosterEvent, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	Decide(ctx context.Context, in DecideInput) (*DecisionResult, error)
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.Submission, error)
	ListByEmployee(ctx context.Context, subtaskID, employeeID string) ([]*domain.Submission, error)
	History(ctx context.Context, submissionID string) ([]*domain.TierTransition, error)
}

type ProgressService interface {
	Progress(ctx context.Context, subtaskID string) (domain.Progress, error)
	CanSubmit(ctx context.Context, subtaskID, employeeID string) (bool, error)
	ProgressByTask(ctx context.Context, taskID string) (*TaskProgress, error)
}

type FeedbackService interface {
	Post(ctx context.Context, in PostFeedbackInput) (*FeedbackResult, error)
	List(ctx context.Context, workItemID string) ([]*domain.FeedbackEntry, error)
	Nested(ctx context.Context, workItemID string) ([]*domain.FeedbackNode, error)
}

type CreateTaskInput struct {
	Title        string       `json:"title" validate:"max=200"`
	ClientName   string       `json:"client_name" validate:"required,max=200"`
	FormID       string       `json:"form_id" validate:"required"`
	DepartmentID string       `json:"department_id"`
	Actor        domain.Actor `json:"-"`
}

type CreateSubtaskInput struct {
	TaskID     string `json:"task_id" validate:"required"`
	TeamLeadID string `json:"team_lead_id" validate:"required"`
	Title      string `json:"title" validate:"max=200"`
	// RequiredApprovals of zero means the configured default.
	RequiredApprovals     int             `json:"required_approvals" validate:"gte=0"`
	Priority              domain.Priority `json:"priority"`
	RequiresManagerReview bool            `json:"requires_manager_review"`
	RequiresAdminReview   bool            `json:"requires_admin_review"`
	DueDate               *time.Time      `json:"due_date"`
	Actor                 domain.Actor    `json:"-"`
}

type CancelSubtaskInput struct {
	SubtaskID       string       `json:"subtask_id" validate:"required"`
	Actor           domain.Actor `json:"-"`
	ExpectedVersion *int         `json:"expected_version"`
}

type AssignInput struct {
	SubtaskID       string       `json:"subtask_id" validate:"required"`
	EmployeeIDs     []string     `json:"employee_ids" validate:"required,min=1,dive,required"`
	Actor           domain.Actor `json:"-"`
	ExpectedVersion *int         `json:"expected_version"`
}

type RemoveInput struct {
	SubtaskID       string       `json:"subtask_id" validate:"required"`
	EmployeeID      string       `json:"employee_id" validate:"required"`
	Actor           domain.Actor `json:"-"`
	ExpectedVersion *int         `json:"expected_version"`
}

// RosterResult is the outcome of a roster change. Warnings carry
// notification failures; the change itself is committed.
type RosterResult struct {
	Delta    domain.RosterDelta
	Subtask  *domain.Subtask
	Warnings []string
}

type SubmitInput struct {
	SubtaskID      string         `json:"subtask_id" validate:"required"`
	EmployeeID     string         `json:"employee_id" validate:"required"`
	FormData       map[string]any `json:"form_data"`
	AttachmentRefs []string       `json:"attachment_refs" validate:"dive,required"`
}

type SubmitResult struct {
	Submission *domain.Submission
	Progress   domain.Progress
	Warnings   []string
}

type DecideInput struct {
	SubmissionID    string            `json:"submission_id" validate:"required"`
	Tier            domain.Tier       `json:"tier" validate:"required"`
	Status          domain.TierStatus `json:"status" validate:"required"`
	Actor           domain.Actor      `json:"-"`
	ExpectedVersion *int              `json:"expected_version"`
	// Comment, when set, is posted to the subtask thread in the same
	// transaction and linked to the submission.
	Comment *string `json:"comment"`
}

type DecisionResult struct {
	Submission *domain.Submission
	// Transition is nil when the write matched the current value.
	Transition *domain.TierTransition
	Progress   domain.Progress
	QuotaMet   bool
	Comment    *domain.FeedbackEntry
	Warnings   []string
}

// Changed reports whether the decision altered the submission.
func (r *DecisionResult) Changed() bool {
	return r.Transition != nil
}

type PostFeedbackInput struct {
	WorkItemID   string       `json:"work_item_id" validate:"required"`
	Author       domain.Actor `json:"-"`
	Body         string       `json:"body" validate:"required,max=10000"`
	ParentID     *string      `json:"parent_id"`
	SubmissionID *string      `json:"submission_id"`
}

type FeedbackResult struct {
	Entry    *domain.FeedbackEntry
	Warnings []string
}

// TaskProgress rolls subtask progress up to the task.
type TaskProgress struct {
	Task             *domain.Task
	Subtasks         []SubtaskProgress
	TerminalSubtasks int
	TotalSubtasks    int
	Percent          int
}

type SubtaskProgress struct {
	Subtask  *domain.Subtask
	Progress domain.Progress
}
