package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/google/uuid"
)

var testClientCounter atomic.Int64

// Actor helpers
func AdminActor(id string) domain.Actor    { return domain.Actor{ID: id, Role: domain.RoleAdmin} }
func ManagerActor(id string) domain.Actor  { return domain.Actor{ID: id, Role: domain.RoleManager} }
func TeamLeadActor(id string) domain.Actor { return domain.Actor{ID: id, Role: domain.RoleTeamLead} }
func EmployeeActor(id string) domain.Actor { return domain.Actor{ID: id, Role: domain.RoleEmployee} }

// Task options
type TaskOption func(*domain.Task)

func WithTaskTitle(title string) TaskOption {
	return func(t *domain.Task) {
		t.Title = title
	}
}

func WithDepartment(id string) TaskOption {
	return func(t *domain.Task) {
		t.DepartmentID = id
	}
}

func WithSubmittedBy(managerID string) TaskOption {
	return func(t *domain.Task) {
		t.SubmittedBy = managerID
	}
}

func WithArchivedAt(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ArchivedAt = &at
	}
}

func NewTestTask(clientName string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	if clientName == "" {
		clientName = fmt.Sprintf("Client %d", testClientCounter.Add(1))
	}
	t := &domain.Task{
		ID:           uuid.New().String(),
		Title:        clientName + " request",
		ClientName:   clientName,
		FormID:       "form-" + uuid.New().String()[:8],
		DepartmentID: "dept-ops",
		SubmittedBy:  "mgr-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subtask options
type SubtaskOption func(*domain.Subtask)

func WithRequiredApprovals(n int) SubtaskOption {
	return func(s *domain.Subtask) {
		s.RequiredApprovals = n
	}
}

func WithPriority(p domain.Priority) SubtaskOption {
	return func(s *domain.Subtask) {
		s.Priority = p
	}
}

func WithSubtaskStatus(st domain.SubtaskStatus) SubtaskOption {
	return func(s *domain.Subtask) {
		s.Status = st
	}
}

func WithManagerReview() SubtaskOption {
	return func(s *domain.Subtask) {
		s.RequiresManagerReview = true
	}
}

func WithAdminReview() SubtaskOption {
	return func(s *domain.Subtask) {
		s.RequiresAdminReview = true
	}
}

func WithSubtaskDueDate(d time.Time) SubtaskOption {
	return func(s *domain.Subtask) {
		s.DueDate = &d
	}
}

func WithSubtaskTitle(title string) SubtaskOption {
	return func(s *domain.Subtask) {
		s.Title = title
	}
}

func NewTestSubtask(taskID, teamLeadID string, opts ...SubtaskOption) *domain.Subtask {
	now := time.Now().UTC()
	s := &domain.Subtask{
		ID:                uuid.New().String(),
		TaskID:            taskID,
		TeamLeadID:        teamLeadID,
		Title:             "Subtask",
		RequiredApprovals: domain.DefaultRequiredApprovals,
		Priority:          domain.PriorityMedium,
		Status:            domain.SubtaskPending,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestAssignment opens an employee assignment on subtaskID.
func NewTestAssignment(subtaskID, memberID string, role domain.MemberRole) *domain.Assignment {
	return &domain.Assignment{
		ID:         uuid.New().String(),
		SubtaskID:  subtaskID,
		MemberID:   memberID,
		MemberRole: role,
		AssignedBy: "lead-1",
		AssignedAt: time.Now().UTC(),
	}
}

// NewTestSubmission builds a fresh submission following st's approval chain.
func NewTestSubmission(st *domain.Subtask, employeeID string) *domain.Submission {
	s, err := domain.NewSubmission(uuid.New().String(), st, employeeID,
		map[string]any{"notes": "test"}, []string{"blob://test"}, time.Now().UTC())
	if err != nil {
		panic(fmt.Sprintf("testutil: building submission: %v", err))
	}
	return s
}

// Feedback options
type FeedbackOption func(*domain.FeedbackEntry)

func WithParent(id string) FeedbackOption {
	return func(e *domain.FeedbackEntry) {
		e.ParentID = &id
	}
}

func WithSeq(seq int) FeedbackOption {
	return func(e *domain.FeedbackEntry) {
		e.Seq = seq
	}
}

func WithFeedbackSubmission(id string) FeedbackOption {
	return func(e *domain.FeedbackEntry) {
		e.SubmissionID = &id
	}
}

func NewTestFeedback(workItemID string, kind domain.WorkItemKind, author domain.Actor, body string, opts ...FeedbackOption) *domain.FeedbackEntry {
	e := &domain.FeedbackEntry{
		ID:           uuid.New().String(),
		WorkItemID:   workItemID,
		WorkItemKind: kind,
		Seq:          1,
		AuthorID:     author.ID,
		AuthorRole:   author.Role,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
