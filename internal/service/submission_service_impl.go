package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/notify"
	"github.com/alexanderramin/quorum/internal/repository"
	"github.com/google/uuid"
)

type submissionService struct {
	submissions repository.SubmissionRepo
	transitions repository.TransitionRepo
	uow         db.UnitOfWork
	opts        options
}

func NewSubmissionService(
	submissions repository.SubmissionRepo,
	transitions repository.TransitionRepo,
	uow db.UnitOfWork,
	opts ...Option,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		transitions: transitions,
		uow:         uow,
		opts:        newOptions(opts),
	}
}

// Submit records a new submission. The quota is checked before roster
// membership so a satisfied subtask always answers with QuotaExceededError.
func (s *submissionService) Submit(ctx context.Context, in SubmitInput) (res *SubmitResult, err error) {
	defer observe(ctx, s.opts.observer, "submit", time.Now(),
		map[string]any{"subtask_id": in.SubtaskID, "employee_id": in.EmployeeID}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}

	res = &SubmitResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubmissions := repository.NewSQLiteSubmissionRepo(tx)

		st, err := repository.NewSQLiteSubtaskRepo(tx).GetByID(ctx, in.SubtaskID)
		if err != nil {
			return err
		}
		if st.Status == domain.SubtaskCancelled {
			return &domain.ValidationError{Field: "subtask_id", Reason: "subtask " + st.ID + " is cancelled"}
		}

		existing, err := txSubmissions.ListBySubtask(ctx, st.ID)
		if err != nil {
			return err
		}
		if !domain.ComputeProgress(st.ID, st.RequiredApprovals, existing).CanSubmit() {
			return &domain.QuotaExceededError{SubtaskID: st.ID, Required: st.RequiredApprovals}
		}

		_, err = repository.NewSQLiteAssignmentRepo(tx).GetActive(ctx, st.ID, in.EmployeeID, domain.MemberEmployee)
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.ValidationError{
				Field:  "employee_id",
				Reason: "employee " + in.EmployeeID + " is not on the roster of subtask " + st.ID,
			}
		}
		if err != nil {
			return err
		}

		now := s.opts.now()
		sub, err := domain.NewSubmission(uuid.New().String(), st, in.EmployeeID, in.FormData, in.AttachmentRefs, now)
		if err != nil {
			return err
		}
		if err := txSubmissions.Create(ctx, sub); err != nil {
			return err
		}

		lc, err := syncLifecycle(ctx, tx, st, now)
		if err != nil {
			return err
		}
		res.Submission = sub
		res.Progress = lc.Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Decide writes one tier of a submission. The tier write, its transition
// log entry, the subtask and task recompute and the optional comment
// commit together; notifications go out afterwards.
func (s *submissionService) Decide(ctx context.Context, in DecideInput) (res *DecisionResult, err error) {
	defer observe(ctx, s.opts.observer, "decide", time.Now(), map[string]any{
		"submission_id": in.SubmissionID,
		"tier":          string(in.Tier),
		"status":        string(in.Status),
	}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Actor); err != nil {
		return nil, err
	}

	res = &DecisionResult{}
	var (
		events  []notify.Event
		subtask *domain.Subtask
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubmissions := repository.NewSQLiteSubmissionRepo(tx)

		sub, err := txSubmissions.GetByID(ctx, in.SubmissionID)
		if err != nil {
			return err
		}
		if err := checkExpectedVersion("submission", sub.ID, in.ExpectedVersion, sub.Version); err != nil {
			return err
		}
		st, err := repository.NewSQLiteSubtaskRepo(tx).GetByID(ctx, sub.SubtaskID)
		if err != nil {
			return err
		}
		subtask = st
		res.Submission = sub

		now := s.opts.now()
		tr, err := sub.ApplyDecision(in.Tier, in.Status, in.Actor, now)
		if err != nil {
			return err
		}
		if tr == nil {
			siblings, err := txSubmissions.ListBySubtask(ctx, st.ID)
			if err != nil {
				return err
			}
			res.Progress = domain.ComputeProgress(st.ID, st.RequiredApprovals, siblings)
			return nil
		}

		if err := txSubmissions.Update(ctx, sub); err != nil {
			return err
		}
		tr.ID = uuid.New().String()
		if tr.Seq, err = repository.NewSQLiteSequenceRepo(tx).Next(ctx, "transitions:"+sub.ID); err != nil {
			return err
		}
		if err := repository.NewSQLiteTransitionRepo(tx).Append(ctx, tr); err != nil {
			return err
		}
		res.Transition = tr

		lc, err := syncLifecycle(ctx, tx, st, now)
		if err != nil {
			return err
		}
		res.Progress = lc.Progress
		res.QuotaMet = lc.QuotaMet

		if tr.OverallBefore != tr.OverallAfter {
			events = append(events, notify.StatusChanged{
				SubmissionID: sub.ID,
				SubtaskID:    st.ID,
				OldOverall:   tr.OverallBefore,
				NewOverall:   tr.OverallAfter,
				Recipients:   notify.Audience([]string{sub.EmployeeID, st.TeamLeadID}),
			})
		}
		if lc.QuotaMet {
			events = append(events, notify.QuotaMet{
				SubtaskID:  st.ID,
				TaskID:     st.TaskID,
				Recipients: notify.Audience([]string{st.TeamLeadID, lc.Task.SubmittedBy}),
			})
		}

		if in.Comment != nil {
			subID := sub.ID
			posted, err := appendFeedback(ctx, tx, PostFeedbackInput{
				WorkItemID:   st.ID,
				Author:       in.Actor,
				Body:         *in.Comment,
				SubmissionID: &subID,
			}, now)
			if err != nil {
				return err
			}
			res.Comment = posted.Entry
			events = append(events, posted.event())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(events) > 0 {
		s.opts.logger.DebugContext(ctx, "decision applied",
			"submission_id", res.Submission.ID,
			"subtask_id", subtask.ID,
			"events", len(events),
		)
	}
	res.Warnings = dispatchAll(ctx, s.opts.dispatcher, s.opts.logger, events)
	return res, nil
}

func (s *submissionService) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *submissionService) ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.Submission, error) {
	return s.submissions.ListBySubtask(ctx, subtaskID)
}

func (s *submissionService) ListByEmployee(ctx context.Context, subtaskID, employeeID string) ([]*domain.Submission, error) {
	return s.submissions.ListByEmployee(ctx, subtaskID, employeeID)
}

// History returns the submission's tier transitions in the order they were
// applied.
func (s *submissionService) History(ctx context.Context, submissionID string) ([]*domain.TierTransition, error) {
	if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.transitions.ListBySubmission(ctx, submissionID)
}
