package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepo_OpenAndClose(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	a := testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)
	require.NoError(t, repo.Create(ctx, a))

	active, err := repo.GetActive(ctx, st.ID, "emp-1", domain.MemberEmployee)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
	assert.True(t, active.IsActive())

	require.NoError(t, active.Close("lead-1", time.Now().UTC()))
	require.NoError(t, repo.Close(ctx, active))

	_, err = repo.GetActive(ctx, st.ID, "emp-1", domain.MemberEmployee)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.ListBySubtask(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive())
	assert.Equal(t, "lead-1", all[0].RemovedBy)
}

func TestAssignmentRepo_Close_AlreadyClosed(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	a := testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)
	require.NoError(t, repo.Create(ctx, a))

	now := time.Now().UTC()
	stale := *a
	require.NoError(t, a.Close("lead-1", now))
	require.NoError(t, repo.Close(ctx, a))

	// A second closer holding the pre-close copy loses.
	require.NoError(t, stale.Close("lead-2", now))
	err := repo.Close(ctx, &stale)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignmentRepo_ReassignOpensNewPeriod(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	first := testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)
	require.NoError(t, repo.Create(ctx, first))

	// A second open row for the same member is rejected by the partial index.
	dup := testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)
	assert.Error(t, repo.Create(ctx, dup))

	require.NoError(t, first.Close("lead-1", time.Now().UTC()))
	require.NoError(t, repo.Close(ctx, first))

	second := testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.ListBySubtask(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.ListActive(ctx, st.ID, domain.MemberEmployee)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestAssignmentRepo_ListActive_FiltersRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := seedSubtask(t, db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestAssignment(st.ID, "lead-1", domain.MemberTeamLead)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestAssignment(st.ID, "emp-2", domain.MemberEmployee)))

	emps, err := repo.ListActive(ctx, st.ID, domain.MemberEmployee)
	require.NoError(t, err)
	assert.Len(t, emps, 2)

	leads, err := repo.ListActive(ctx, st.ID, domain.MemberTeamLead)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].MemberID)
}
