package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/repository"
	"github.com/alexanderramin/quorum/internal/testutil"
	"github.com/stretchr/testify/require"
)

var (
	manager  = testutil.ManagerActor("mgr-1")
	teamLead = testutil.TeamLeadActor("lead-1")
	admin    = testutil.AdminActor("admin-1")
)

// tickingClock advances one second per call so timestamps never collide.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

type harness struct {
	db  *sql.DB
	uow db.UnitOfWork
	rec *testutil.RecordingDispatcher

	taskRepo       *repository.SQLiteTaskRepo
	subtaskRepo    *repository.SQLiteSubtaskRepo
	submissionRepo *repository.SQLiteSubmissionRepo
	transitionRepo *repository.SQLiteTransitionRepo

	tasks       TaskService
	subtasks    SubtaskService
	roster      RosterService
	submissions SubmissionService
	progress    ProgressService
	feedback    FeedbackService
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	return newHarnessOn(t, testutil.NewTestDB(t), opts...)
}

func newHarnessOn(t *testing.T, database *sql.DB, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		db:             database,
		uow:            testutil.NewTestUoW(database),
		rec:            &testutil.RecordingDispatcher{},
		taskRepo:       repository.NewSQLiteTaskRepo(database),
		subtaskRepo:    repository.NewSQLiteSubtaskRepo(database),
		submissionRepo: repository.NewSQLiteSubmissionRepo(database),
		transitionRepo: repository.NewSQLiteTransitionRepo(database),
	}
	all := append([]Option{WithDispatcher(h.rec), WithClock(tickingClock())}, opts...)

	assignments := repository.NewSQLiteAssignmentRepo(database)
	events := repository.NewSQLiteRosterEventRepo(database)
	feedback := repository.NewSQLiteFeedbackRepo(database)

	h.tasks = NewTaskService(h.taskRepo, h.uow, all...)
	h.subtasks = NewSubtaskService(h.subtaskRepo, h.uow, all...)
	h.roster = NewRosterService(h.subtaskRepo, assignments, events, h.uow, all...)
	h.submissions = NewSubmissionService(h.submissionRepo, h.transitionRepo, h.uow, all...)
	h.progress = NewProgressService(h.taskRepo, h.subtaskRepo, h.submissionRepo)
	h.feedback = NewFeedbackService(h.taskRepo, h.subtaskRepo, feedback, h.uow, all...)
	return h
}

func (h *harness) createTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := h.tasks.Create(context.Background(), CreateTaskInput{
		ClientName: "Acme",
		FormID:     "form-1",
		Actor:      manager,
	})
	require.NoError(t, err)
	return task
}

type subtaskSetup func(*CreateSubtaskInput)

func quota(n int) subtaskSetup {
	return func(in *CreateSubtaskInput) { in.RequiredApprovals = n }
}

func managerReview() subtaskSetup {
	return func(in *CreateSubtaskInput) { in.RequiresManagerReview = true }
}

func adminReview() subtaskSetup {
	return func(in *CreateSubtaskInput) { in.RequiresAdminReview = true }
}

func (h *harness) createSubtask(t *testing.T, taskID string, setup ...subtaskSetup) *domain.Subtask {
	t.Helper()
	in := CreateSubtaskInput{
		TaskID:     taskID,
		TeamLeadID: teamLead.ID,
		Title:      "Collect site reports",
		Actor:      manager,
	}
	for _, fn := range setup {
		fn(&in)
	}
	st, err := h.subtasks.Create(context.Background(), in)
	require.NoError(t, err)
	return st
}

// seed creates a task with one subtask and assigns the given employees.
func (h *harness) seed(t *testing.T, employees []string, setup ...subtaskSetup) (*domain.Task, *domain.Subtask) {
	t.Helper()
	task := h.createTask(t)
	st := h.createSubtask(t, task.ID, setup...)
	if len(employees) > 0 {
		_, err := h.roster.Assign(context.Background(), AssignInput{
			SubtaskID:   st.ID,
			EmployeeIDs: employees,
			Actor:       teamLead,
		})
		require.NoError(t, err)
	}
	h.rec.Reset()
	return task, st
}

func (h *harness) submit(t *testing.T, subtaskID, employeeID string) *domain.Submission {
	t.Helper()
	res, err := h.submissions.Submit(context.Background(), SubmitInput{
		SubtaskID:  subtaskID,
		EmployeeID: employeeID,
		FormData:   map[string]any{"visits": float64(3)},
	})
	require.NoError(t, err)
	return res.Submission
}

func (h *harness) decide(t *testing.T, submissionID string, tier domain.Tier, status domain.TierStatus, actor domain.Actor) *DecisionResult {
	t.Helper()
	res, err := h.submissions.Decide(context.Background(), DecideInput{
		SubmissionID: submissionID,
		Tier:         tier,
		Status:       status,
		Actor:        actor,
	})
	require.NoError(t, err)
	return res
}

func (h *harness) reloadSubtask(t *testing.T, id string) *domain.Subtask {
	t.Helper()
	st, err := h.subtaskRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return st
}

func (h *harness) reloadTask(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := h.taskRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
