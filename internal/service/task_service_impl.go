package service

import (
	"context"
	"time"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks repository.TaskRepo
	uow   db.UnitOfWork
	opts  options
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, opts ...Option) TaskService {
	return &taskService{tasks: tasks, uow: uow, opts: newOptions(opts)}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (task *domain.Task, err error) {
	defer observe(ctx, s.opts.observer, "create-task", time.Now(), map[string]any{"client": in.ClientName}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Actor); err != nil {
		return nil, err
	}

	now := s.opts.now()
	task = &domain.Task{
		ID:           uuid.New().String(),
		Title:        in.Title,
		ClientName:   in.ClientName,
		FormID:       in.FormID,
		DepartmentID: in.DepartmentID,
		SubmittedBy:  in.Actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if task.Title == "" {
		task.Title = in.ClientName
	}
	if err = s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, includeArchived bool) ([]*domain.Task, error) {
	return s.tasks.List(ctx, includeArchived)
}

func (s *taskService) Archive(ctx context.Context, id string, actor domain.Actor) (task *domain.Task, err error) {
	defer observe(ctx, s.opts.observer, "archive-task", time.Now(), map[string]any{"task_id": id}, &err)

	if err = validateActor(actor); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := t.Archive(s.opts.now()); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
