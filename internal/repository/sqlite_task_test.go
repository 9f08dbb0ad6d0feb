package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Acme", testutil.WithDepartment("dept-legal"), testutil.WithSubmittedBy("mgr-7"))
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", fetched.ClientName)
	assert.Equal(t, "dept-legal", fetched.DepartmentID)
	assert.Equal(t, "mgr-7", fetched.SubmittedBy)
	assert.Equal(t, task.FormID, fetched.FormID)
	assert.True(t, task.CreatedAt.Equal(fetched.CreatedAt))
	assert.Nil(t, fetched.CompletedAt)
	assert.Nil(t, fetched.ArchivedAt)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "task", nf.Entity)
}

func TestTaskRepo_List_ExcludesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	open := testutil.NewTestTask("Open")
	archived := testutil.NewTestTask("Gone", testutil.WithArchivedAt(time.Now().UTC()))
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, archived))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskRepo_Update_CompletionRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Acme")
	require.NoError(t, repo.Create(ctx, task))

	done := time.Now().UTC()
	task.CompletedAt = &done
	task.UpdatedAt = done
	require.NoError(t, repo.Update(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.CompletedAt)
	assert.True(t, done.Equal(*fetched.CompletedAt))

	task.CompletedAt = nil
	require.NoError(t, repo.Update(ctx, task))
	fetched, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.CompletedAt)
}

func TestTaskRepo_Update_Missing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)

	err := repo.Update(context.Background(), testutil.NewTestTask("Ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
