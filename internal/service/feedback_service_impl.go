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

type feedbackService struct {
	tasks    repository.TaskRepo
	subtasks repository.SubtaskRepo
	entries  repository.FeedbackRepo
	uow      db.UnitOfWork
	opts     options
}

func NewFeedbackService(
	tasks repository.TaskRepo,
	subtasks repository.SubtaskRepo,
	entries repository.FeedbackRepo,
	uow db.UnitOfWork,
	opts ...Option,
) FeedbackService {
	return &feedbackService{
		tasks:    tasks,
		subtasks: subtasks,
		entries:  entries,
		uow:      uow,
		opts:     newOptions(opts),
	}
}

func (s *feedbackService) Post(ctx context.Context, in PostFeedbackInput) (res *FeedbackResult, err error) {
	defer observe(ctx, s.opts.observer, "post-feedback", time.Now(),
		map[string]any{"work_item_id": in.WorkItemID, "reply": in.ParentID != nil}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Author); err != nil {
		return nil, err
	}

	var posted *postedEntry
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		posted, err = appendFeedback(ctx, tx, in, s.opts.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	res = &FeedbackResult{Entry: posted.Entry}
	res.Warnings = dispatchAll(ctx, s.opts.dispatcher, s.opts.logger, []notify.Event{posted.event()})
	return res, nil
}

// List returns the flattened thread in sequence order.
func (s *feedbackService) List(ctx context.Context, workItemID string) ([]*domain.FeedbackEntry, error) {
	if _, err := resolveWorkItem(ctx, s.tasks, s.subtasks, workItemID); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByWorkItem(ctx, workItemID)
	if err != nil {
		return nil, err
	}
	return domain.FlattenThread(entries), nil
}

// Nested groups the same entries under their parents.
func (s *feedbackService) Nested(ctx context.Context, workItemID string) ([]*domain.FeedbackNode, error) {
	entries, err := s.List(ctx, workItemID)
	if err != nil {
		return nil, err
	}
	return domain.NestThread(entries), nil
}

type workItem struct {
	Kind    domain.WorkItemKind
	Task    *domain.Task
	Subtask *domain.Subtask
}

// resolveWorkItem finds the task or subtask with the given id.
func resolveWorkItem(ctx context.Context, tasks repository.TaskRepo, subtasks repository.SubtaskRepo, id string) (*workItem, error) {
	st, err := subtasks.GetByID(ctx, id)
	if err == nil {
		return &workItem{Kind: domain.WorkItemSubtask, Subtask: st}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	task, err := tasks.GetByID(ctx, id)
	if err == nil {
		return &workItem{Kind: domain.WorkItemTask, Task: task}, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{Entity: "work item", ID: id}
	}
	return nil, err
}

type postedEntry struct {
	Entry      *domain.FeedbackEntry
	Recipients []string
}

func (p *postedEntry) event() notify.Event {
	return notify.FeedbackPosted{
		WorkItemID: p.Entry.WorkItemID,
		EntryID:    p.Entry.ID,
		Recipients: p.Recipients,
	}
}

// appendFeedback validates and stores one entry inside tx and works out
// who should hear about it.
func appendFeedback(ctx context.Context, tx db.DBTX, in PostFeedbackInput, now time.Time) (*postedEntry, error) {
	txTasks := repository.NewSQLiteTaskRepo(tx)
	txSubtasks := repository.NewSQLiteSubtaskRepo(tx)
	txEntries := repository.NewSQLiteFeedbackRepo(tx)

	item, err := resolveWorkItem(ctx, txTasks, txSubtasks, in.WorkItemID)
	if err != nil {
		return nil, err
	}

	e := &domain.FeedbackEntry{
		ID:           uuid.New().String(),
		WorkItemID:   in.WorkItemID,
		WorkItemKind: item.Kind,
		AuthorID:     in.Author.ID,
		AuthorRole:   in.Author.Role,
		Body:         in.Body,
		ParentID:     in.ParentID,
		SubmissionID: in.SubmissionID,
		CreatedAt:    now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	var parent *domain.FeedbackEntry
	if e.ParentID != nil {
		parent, err = txEntries.GetByID(ctx, *e.ParentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if err := e.CheckParent(parent); err != nil {
		return nil, err
	}
	if e.SubmissionID != nil {
		if err := checkLinkedSubmission(ctx, tx, item, *e.SubmissionID); err != nil {
			return nil, err
		}
	}

	if e.Seq, err = repository.NewSQLiteSequenceRepo(tx).Next(ctx, "feedback:"+e.WorkItemID); err != nil {
		return nil, err
	}
	if err := txEntries.Append(ctx, e); err != nil {
		return nil, err
	}

	var ids []string
	switch item.Kind {
	case domain.WorkItemSubtask:
		ids = append(ids, item.Subtask.TeamLeadID)
		roster, err := repository.NewSQLiteAssignmentRepo(tx).ListActive(ctx, item.Subtask.ID, domain.MemberEmployee)
		if err != nil {
			return nil, err
		}
		for _, a := range roster {
			ids = append(ids, a.MemberID)
		}
	case domain.WorkItemTask:
		ids = append(ids, item.Task.SubmittedBy)
		subtasks, err := txSubtasks.ListByTask(ctx, item.Task.ID)
		if err != nil {
			return nil, err
		}
		for _, st := range subtasks {
			ids = append(ids, st.TeamLeadID)
		}
	}
	if parent != nil {
		ids = append(ids, parent.AuthorID)
	}
	return &postedEntry{Entry: e, Recipients: notify.Audience(ids, e.AuthorID)}, nil
}

// checkLinkedSubmission verifies that a status-change comment points at a
// submission of the subtask being discussed.
func checkLinkedSubmission(ctx context.Context, tx db.DBTX, item *workItem, submissionID string) error {
	sub, err := repository.NewSQLiteSubmissionRepo(tx).GetByID(ctx, submissionID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ValidationError{Field: "submission_id", Reason: "submission " + submissionID + " does not exist"}
	}
	if err != nil {
		return err
	}
	if item.Kind != domain.WorkItemSubtask || sub.SubtaskID != item.Subtask.ID {
		return &domain.ValidationError{Field: "submission_id", Reason: "submission " + submissionID + " belongs to another work item"}
	}
	return nil
}
