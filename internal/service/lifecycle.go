package service

import (
	"context"
	"time"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/repository"
)

type lifecycleResult struct {
	Progress domain.Progress
	// QuotaMet is true only when this sync moved the subtask to completed.
	QuotaMet bool
	Task     *domain.Task
}

// syncLifecycle recomputes the subtask's quota state from its submissions,
// then the parent task's completion, writing whichever changed. It must run
// inside the transaction that changed the submissions.
func syncLifecycle(ctx context.Context, tx db.DBTX, st *domain.Subtask, now time.Time) (lifecycleResult, error) {
	txSubtasks := repository.NewSQLiteSubtaskRepo(tx)
	txSubmissions := repository.NewSQLiteSubmissionRepo(tx)

	subs, err := txSubmissions.ListBySubtask(ctx, st.ID)
	if err != nil {
		return lifecycleResult{}, err
	}
	res := lifecycleResult{Progress: domain.ComputeProgress(st.ID, st.RequiredApprovals, subs)}

	changed, met := st.SyncWithProgress(res.Progress, len(subs) > 0, now)
	if changed {
		if err := txSubtasks.Update(ctx, st); err != nil {
			return lifecycleResult{}, err
		}
	}
	res.QuotaMet = met

	task, err := syncTaskCompletion(ctx, tx, st.TaskID, now)
	if err != nil {
		return lifecycleResult{}, err
	}
	res.Task = task
	return res, nil
}

// syncTaskCompletion sets or clears the task's CompletedAt from its
// subtasks' current statuses.
func syncTaskCompletion(ctx context.Context, tx db.DBTX, taskID string, now time.Time) (*domain.Task, error) {
	txTasks := repository.NewSQLiteTaskRepo(tx)
	task, err := txTasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	siblings, err := repository.NewSQLiteSubtaskRepo(tx).ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.SyncCompletion(siblings, now) {
		if err := txTasks.Update(ctx, task); err != nil {
			return nil, err
		}
	}
	return task, nil
}
