package service

import (
	"context"
	"math"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/repository"
)

type progressService struct {
	tasks       repository.TaskRepo
	subtasks    repository.SubtaskRepo
	submissions repository.SubmissionRepo
}

func NewProgressService(tasks repository.TaskRepo, subtasks repository.SubtaskRepo, submissions repository.SubmissionRepo) ProgressService {
	return &progressService{tasks: tasks, subtasks: subtasks, submissions: submissions}
}

func (s *progressService) Progress(ctx context.Context, subtaskID string) (domain.Progress, error) {
	st, err := s.subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return domain.Progress{}, err
	}
	return s.progressOf(ctx, st)
}

// CanSubmit reports whether the subtask still accepts submissions. The
// answer depends only on the quota, not on who asks.
func (s *progressService) CanSubmit(ctx context.Context, subtaskID, employeeID string) (bool, error) {
	p, err := s.Progress(ctx, subtaskID)
	if err != nil {
		return false, err
	}
	return p.CanSubmit(), nil
}

func (s *progressService) ProgressByTask(ctx context.Context, taskID string) (*TaskProgress, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	subtasks, err := s.subtasks.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tp := &TaskProgress{Task: task, TotalSubtasks: len(subtasks)}
	for _, st := range subtasks {
		p, err := s.progressOf(ctx, st)
		if err != nil {
			return nil, err
		}
		tp.Subtasks = append(tp.Subtasks, SubtaskProgress{Subtask: st, Progress: p})
		if st.Status.IsTerminal() {
			tp.TerminalSubtasks++
		}
	}
	if tp.TotalSubtasks > 0 {
		tp.Percent = int(math.Round(100 * float64(tp.TerminalSubtasks) / float64(tp.TotalSubtasks)))
	}
	return tp, nil
}

func (s *progressService) progressOf(ctx context.Context, st *domain.Subtask) (domain.Progress, error) {
	subs, err := s.submissions.ListBySubtask(ctx, st.ID)
	if err != nil {
		return domain.Progress{}, err
	}
	return domain.ComputeProgress(st.ID, st.RequiredApprovals, subs), nil
}
