package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubtask() *Subtask {
	return &Subtask{
		ID:                "st",
		TaskID:            "t",
		TeamLeadID:        "tl1",
		RequiredApprovals: 1,
		Priority:          PriorityMedium,
		Status:            SubtaskPending,
	}
}

func TestSubtaskValidate(t *testing.T) {
	require.NoError(t, validSubtask().Validate())

	for _, quota := range []int{0, -1} {
		st := validSubtask()
		st.RequiredApprovals = quota
		assert.ErrorIs(t, st.Validate(), ErrValidation, "quota=%d", quota)
	}

	st := validSubtask()
	st.Priority = "urgent"
	assert.ErrorIs(t, st.Validate(), ErrValidation)
}

func TestSubtaskSyncWithProgress(t *testing.T) {
	st := validSubtask()
	st.RequiredApprovals = 2

	changed, met := st.SyncWithProgress(ProgressFromCounts(st.ID, 2, 0), true, testNow)
	assert.True(t, changed)
	assert.False(t, met)
	assert.Equal(t, SubtaskInProgress, st.Status)

	changed, met = st.SyncWithProgress(ProgressFromCounts(st.ID, 2, 2), true, testNow)
	assert.True(t, changed)
	assert.True(t, met)
	assert.Equal(t, SubtaskCompleted, st.Status)

	changed, met = st.SyncWithProgress(ProgressFromCounts(st.ID, 2, 2), true, testNow)
	assert.False(t, changed)
	assert.False(t, met, "quota met fires only on the crossing")

	changed, _ = st.SyncWithProgress(ProgressFromCounts(st.ID, 2, 1), true, testNow)
	assert.True(t, changed)
	assert.Equal(t, SubtaskInProgress, st.Status)
}

func TestSubtaskCancel(t *testing.T) {
	st := validSubtask()
	require.NoError(t, st.Cancel(testNow))
	assert.Equal(t, SubtaskCancelled, st.Status)
	assert.ErrorIs(t, st.Cancel(testNow), ErrValidation)

	changed, _ := st.SyncWithProgress(ProgressFromCounts(st.ID, 1, 1), true, testNow)
	assert.False(t, changed, "cancelled subtasks stay cancelled")
}

func TestTaskSyncCompletion(t *testing.T) {
	task := &Task{ID: "t"}
	assert.False(t, task.SyncCompletion(nil, testNow), "no subtasks, never complete")

	a, b := validSubtask(), validSubtask()
	a.Status = SubtaskCompleted
	assert.False(t, task.SyncCompletion([]*Subtask{a, b}, testNow))
	assert.Nil(t, task.CompletedAt)

	b.Status = SubtaskCancelled
	assert.True(t, task.SyncCompletion([]*Subtask{a, b}, testNow))
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.IsTerminal())

	a.Status = SubtaskInProgress
	assert.True(t, task.SyncCompletion([]*Subtask{a, b}, testNow))
	assert.Nil(t, task.CompletedAt)
}

func TestTaskArchive(t *testing.T) {
	task := &Task{ID: "t"}
	require.NoError(t, task.Archive(testNow))
	assert.True(t, task.IsTerminal())
	assert.ErrorIs(t, task.Archive(testNow), ErrValidation)
}

func TestAssignmentClose(t *testing.T) {
	a := &Assignment{MemberID: "e1"}
	require.NoError(t, a.Close("tl1", testNow))
	assert.False(t, a.IsActive())
	assert.ErrorIs(t, a.Close("tl1", testNow), ErrNotFound)
}

func TestErrorTaxonomy(t *testing.T) {
	var err error = &ConflictError{Entity: "submission", ID: "s1", Expected: 2, Actual: 3}
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "submission s1: expected version 2, found 3", err.Error())

	err = &QuotaExceededError{SubtaskID: "st", Required: 2}
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.False(t, IsRetryable(err))

	err = &NotFoundError{Entity: "subtask", ID: "x"}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
}
