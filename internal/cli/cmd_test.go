package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/repository"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/alexanderramin/quorum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("QUORUM_ACTOR", "")
	t.Setenv("QUORUM_ROLE", "")
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	tasks := repository.NewSQLiteTaskRepo(database)
	subtasks := repository.NewSQLiteSubtaskRepo(database)
	submissions := repository.NewSQLiteSubmissionRepo(database)
	opts := []service.Option{service.WithDispatcher(&testutil.RecordingDispatcher{})}

	return &App{
		Tasks:       service.NewTaskService(tasks, uow, opts...),
		Subtasks:    service.NewSubtaskService(subtasks, uow, opts...),
		Roster:      service.NewRosterService(subtasks, repository.NewSQLiteAssignmentRepo(database), repository.NewSQLiteRosterEventRepo(database), uow, opts...),
		Submissions: service.NewSubmissionService(submissions, repository.NewSQLiteTransitionRepo(database), uow, opts...),
		Progress:    service.NewProgressService(tasks, subtasks, submissions),
		Feedback:    service.NewFeedbackService(tasks, subtasks, repository.NewSQLiteFeedbackRepo(database), uow, opts...),
		Now:         func() time.Time { return cliNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

var (
	asManager  = []string{"--actor", "mgr-1", "--role", "manager"}
	asLead     = []string{"--actor", "lead-1", "--role", "team-lead"}
	asEmployee = []string{"--actor", "emp-1", "--role", "employee"}
)

func args(who []string, rest ...string) []string {
	return append(append([]string{}, rest...), who...)
}

// seedSubtask creates a task and a subtask owned by lead-1 through the services.
func seedSubtask(t *testing.T, app *App, setup func(*service.CreateSubtaskInput)) (*domain.Task, *domain.Subtask) {
	t.Helper()
	ctx := context.Background()
	mgr := domain.Actor{ID: "mgr-1", Role: domain.RoleManager}

	task, err := app.Tasks.Create(ctx, service.CreateTaskInput{ClientName: "Acme", FormID: "form-1", Title: "Q3 audit", Actor: mgr})
	require.NoError(t, err)

	in := service.CreateSubtaskInput{TaskID: task.ID, TeamLeadID: "lead-1", Title: "Site survey", Actor: mgr}
	if setup != nil {
		setup(&in)
	}
	st, err := app.Subtasks.Create(ctx, in)
	require.NoError(t, err)
	return task, st
}

func TestTaskCreate_RequiresActor(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "create", "--client", "Acme", "--form", "form-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "--actor")
}

func TestTaskCreateAndList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, args(asManager, "task", "create", "--client", "Acme", "--form", "form-1", "--title", "Q3 audit")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Q3 audit")
	assert.Contains(t, out, "mgr-1")

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Q3 audit")
	assert.Contains(t, out, "Acme")
}

func TestTaskArchive_HiddenFromDefaultList(t *testing.T) {
	app := testApp(t)
	task, _ := seedSubtask(t, app, nil)

	out, err := executeCmd(t, app, args(asManager, "task", "archive", task.ID[:8])...)
	require.NoError(t, err)
	assert.Contains(t, out, "Archived")

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet.")

	out, err = executeCmd(t, app, "task", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Q3 audit")
}

func TestTaskShow_UnknownID(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "show", "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSubtaskCreate_ResolvesTaskPrefix(t *testing.T) {
	app := testApp(t)
	task, _ := seedSubtask(t, app, nil)

	out, err := executeCmd(t, app, args(asManager,
		"subtask", "create", "--task", task.ID[:8], "--lead", "lead-2", "--title", "Interviews",
		"--approvals", "2", "--manager-review", "--priority", "HIGH", "--due", "2026-03-20")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Interviews")
	assert.Contains(t, out, "team_lead → manager")
	assert.Contains(t, out, "0/2 approvals")
	assert.Contains(t, out, "high")

	out, err = executeCmd(t, app, "subtask", "list", "--lead", "lead-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Interviews")
	assert.NotContains(t, out, "Site survey")
}

func TestSubtaskCreate_RejectsBadFlags(t *testing.T) {
	app := testApp(t)
	task, _ := seedSubtask(t, app, nil)

	_, err := executeCmd(t, app, args(asManager, "subtask", "create", "--task", task.ID, "--lead", "lead-1", "--priority", "urgent")...)
	assert.Error(t, err)

	_, err = executeCmd(t, app, args(asManager, "subtask", "create", "--task", task.ID, "--lead", "lead-1", "--due", "next week")...)
	assert.Error(t, err)
}

func TestSubtaskList_RequiresFilter(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "subtask", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--task or --lead")
}

func TestSubmissionFlow_AssignSubmitDecide(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	_, st := seedSubtask(t, app, nil)

	out, err := executeCmd(t, app, args(asLead, "roster", "assign", st.ID, "emp-1", "emp-2")...)
	require.NoError(t, err)
	assert.Contains(t, out, "+ emp-1")
	assert.Contains(t, out, "+ emp-2")

	out, err = executeCmd(t, app, args(asEmployee,
		"submission", "submit", "--subtask", st.ID[:8], "--field", "site=North", "--attach", "blob://photo-1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Submitted")
	assert.Contains(t, out, "0/1 approvals")

	subs, err := app.Submissions.ListBySubtask(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "emp-1", subs[0].EmployeeID)
	assert.Equal(t, "North", subs[0].FormData["site"])
	assert.Equal(t, []string{"blob://photo-1"}, subs[0].AttachmentRefs)

	out, err = executeCmd(t, app, args(asLead,
		"submission", "decide", subs[0].ID, "--status", "approved", "--comment", "Looks complete.")...)
	require.NoError(t, err)
	assert.Contains(t, out, "team_lead")
	assert.Contains(t, out, "APPROVED")
	assert.Contains(t, out, "Quota met")
	assert.Contains(t, out, "Comment #1 posted.")

	out, err = executeCmd(t, app, "submission", "history", subs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "lead-1")

	out, err = executeCmd(t, app, "subtask", "progress", st.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 approvals")
	assert.Contains(t, out, "closed: quota met")

	// Quota is met, so a further submission is refused.
	_, err = executeCmd(t, app, args(asEmployee, "submission", "submit", "--subtask", st.ID)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQuotaExceeded))
}

func TestSubmissionDecide_EmployeeHasNoTier(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, args(asEmployee, "submission", "decide", "sub-1", "--status", "approved")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSubmissionDecide_NormalizesStatusSpelling(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	_, st := seedSubtask(t, app, func(in *service.CreateSubtaskInput) { in.RequiresManagerReview = true })
	_, err := executeCmd(t, app, args(asLead, "roster", "assign", st.ID, "emp-1")...)
	require.NoError(t, err)
	_, err = executeCmd(t, app, args(asEmployee, "submission", "submit", "--subtask", st.ID)...)
	require.NoError(t, err)
	subs, err := app.Submissions.ListBySubtask(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	_, err = executeCmd(t, app, args(asManager, "submission", "decide", subs[0].ID, "--status", "In-Progress")...)
	require.NoError(t, err)

	got, err := app.Submissions.GetByID(ctx, subs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierInProgress, got.ManagerStatus)
	assert.Equal(t, domain.OverallInProgress, got.OverallStatus)

	_, err = executeCmd(t, app, args(asManager, "submission", "decide", subs[0].ID, "--status", "maybe")...)
	assert.Error(t, err)
}

func TestSubmissionDecide_StaleExpectedVersion(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	_, st := seedSubtask(t, app, nil)
	_, err := executeCmd(t, app, args(asLead, "roster", "assign", st.ID, "emp-1")...)
	require.NoError(t, err)
	_, err = executeCmd(t, app, args(asEmployee, "submission", "submit", "--subtask", st.ID)...)
	require.NoError(t, err)
	subs, err := app.Submissions.ListBySubtask(ctx, st.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, args(asLead, "submission", "decide", subs[0].ID, "--status", "rejected", "--expected-version", "7")...)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestRosterRemove_KeepsHistory(t *testing.T) {
	app := testApp(t)
	_, st := seedSubtask(t, app, nil)

	_, err := executeCmd(t, app, args(asLead, "roster", "assign", st.ID, "emp-1")...)
	require.NoError(t, err)
	out, err := executeCmd(t, app, args(asLead, "roster", "remove", st.ID, "emp-1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "- emp-1")

	out, err = executeCmd(t, app, "roster", "list", st.ID)
	require.NoError(t, err)
	assert.NotContains(t, out, "emp-1")

	out, err = executeCmd(t, app, "roster", "list", st.ID, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "emp-1")
	assert.Contains(t, out, "by lead-1")

	out, err = executeCmd(t, app, "roster", "history", st.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "+ assigned")
	assert.Contains(t, out, "- removed")

	_, err = executeCmd(t, app, args(asLead, "roster", "remove", st.ID, "emp-1")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRosterLead_HandsOver(t *testing.T) {
	app := testApp(t)
	_, st := seedSubtask(t, app, nil)

	_, err := executeCmd(t, app, args(asManager, "roster", "lead", st.ID, "lead-9")...)
	require.NoError(t, err)

	got, err := app.Subtasks.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "lead-9", got.TeamLeadID)
}

func TestFeedbackPost_RequiresBodyWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	_, st := seedSubtask(t, app, nil)

	_, err := executeCmd(t, app, args(asLead, "feedback", "post", st.ID)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--body")
}

func TestFeedbackPost_PromptsWhenInteractive(t *testing.T) {
	app := testApp(t)
	_, st := seedSubtask(t, app, nil)
	app.IsInteractive = func() bool { return true }
	app.PromptBody = func(string) (string, error) { return "From the prompt.", nil }

	out, err := executeCmd(t, app, args(asLead, "feedback", "post", st.ID)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Posted #1")

	entries, err := app.Feedback.List(context.Background(), st.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "From the prompt.", entries[0].Body)
}

func TestFeedbackThread_NestedAndFlat(t *testing.T) {
	app := testApp(t)
	task, st := seedSubtask(t, app, nil)

	_, err := executeCmd(t, app, args(asLead, "feedback", "post", st.ID, "--body", "Please add totals.")...)
	require.NoError(t, err)
	entries, err := app.Feedback.List(context.Background(), st.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = executeCmd(t, app, args(asManager, "feedback", "post", st.ID, "--body", "Agreed.", "--parent", entries[0].ID)...)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "feedback", "list", st.ID, "--nested")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 lead-1")
	assert.Contains(t, out, "└─ #2 mgr-1")
	assert.Contains(t, out, "Agreed.")

	out, err = executeCmd(t, app, "feedback", "list", st.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "↳ #1")

	// Task threads resolve through the task id.
	_, err = executeCmd(t, app, args(asManager, "feedback", "post", task.ID, "--body", "Kickoff notes.")...)
	require.NoError(t, err)
	out, err = executeCmd(t, app, "feedback", "list", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Kickoff notes.")
	assert.NotContains(t, out, "Agreed.")
}

func TestFeedbackList_UnknownWorkItem(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "feedback", "list", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "work item")
}

func TestTaskProgress_RollsUpSubtasks(t *testing.T) {
	app := testApp(t)
	task, st := seedSubtask(t, app, nil)

	_, err := executeCmd(t, app, args(asManager, "subtask", "cancel", st.ID)...)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "task", "progress", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 subtasks done")
	assert.Contains(t, out, "Cancelled")
}

func TestActorFromEnvironment(t *testing.T) {
	app := testApp(t)
	t.Setenv("QUORUM_ACTOR", "mgr-7")
	t.Setenv("QUORUM_ROLE", "manager")

	out, err := executeCmd(t, app, "task", "create", "--client", "Globex", "--form", "form-2")
	require.NoError(t, err)
	assert.Contains(t, out, "mgr-7")
}
