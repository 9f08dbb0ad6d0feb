package service

import (
	"context"
	"time"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/repository"
	"github.com/google/uuid"
)

type subtaskService struct {
	subtasks repository.SubtaskRepo
	uow      db.UnitOfWork
	opts     options
}

func NewSubtaskService(subtasks repository.SubtaskRepo, uow db.UnitOfWork, opts ...Option) SubtaskService {
	return &subtaskService{subtasks: subtasks, uow: uow, opts: newOptions(opts)}
}

// Create stores the subtask and opens its TeamLead's roster period.
func (s *subtaskService) Create(ctx context.Context, in CreateSubtaskInput) (st *domain.Subtask, err error) {
	defer observe(ctx, s.opts.observer, "create-subtask", time.Now(), map[string]any{"task_id": in.TaskID}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Actor); err != nil {
		return nil, err
	}

	now := s.opts.now()
	st = &domain.Subtask{
		ID:                    uuid.New().String(),
		TaskID:                in.TaskID,
		TeamLeadID:            in.TeamLeadID,
		Title:                 in.Title,
		RequiredApprovals:     in.RequiredApprovals,
		Priority:              in.Priority,
		Status:                domain.SubtaskPending,
		RequiresManagerReview: in.RequiresManagerReview,
		RequiresAdminReview:   in.RequiresAdminReview,
		DueDate:               in.DueDate,
		CreatedAt:             now,
		UpdatedAt:             now,
		Version:               1,
	}
	if st.RequiredApprovals == 0 {
		st.RequiredApprovals = s.opts.defaultRequired
	}
	if st.Priority == "" {
		st.Priority = domain.PriorityMedium
	}
	if err = st.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		task, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, in.TaskID)
		if err != nil {
			return err
		}
		if task.ArchivedAt != nil {
			return &domain.ValidationError{Field: "task_id", Reason: "task " + task.ID + " is archived"}
		}
		if err := repository.NewSQLiteSubtaskRepo(tx).Create(ctx, st); err != nil {
			return err
		}
		if err := openAssignment(ctx, tx, st.ID, st.TeamLeadID, domain.MemberTeamLead, in.Actor.ID, now); err != nil {
			return err
		}
		_, err = syncTaskCompletion(ctx, tx, st.TaskID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *subtaskService) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	return s.subtasks.GetByID(ctx, id)
}

func (s *subtaskService) ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error) {
	return s.subtasks.ListByTask(ctx, taskID)
}

func (s *subtaskService) ListByTeamLead(ctx context.Context, teamLeadID string) ([]*domain.Subtask, error) {
	return s.subtasks.ListByTeamLead(ctx, teamLeadID)
}

func (s *subtaskService) Cancel(ctx context.Context, in CancelSubtaskInput) (st *domain.Subtask, err error) {
	defer observe(ctx, s.opts.observer, "cancel-subtask", time.Now(), map[string]any{"subtask_id": in.SubtaskID}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Actor); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubtasks := repository.NewSQLiteSubtaskRepo(tx)
		cur, err := txSubtasks.GetByID(ctx, in.SubtaskID)
		if err != nil {
			return err
		}
		if err := checkExpectedVersion("subtask", cur.ID, in.ExpectedVersion, cur.Version); err != nil {
			return err
		}
		now := s.opts.now()
		if err := cur.Cancel(now); err != nil {
			return err
		}
		if err := txSubtasks.Update(ctx, cur); err != nil {
			return err
		}
		if _, err := syncTaskCompletion(ctx, tx, cur.TaskID, now); err != nil {
			return err
		}
		st = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
