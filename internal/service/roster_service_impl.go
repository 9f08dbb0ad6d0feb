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

type rosterService struct {
	subtasks    repository.SubtaskRepo
	assignments repository.AssignmentRepo
	events      repository.RosterEventRepo
	uow         db.UnitOfWork
	opts        options
}

func NewRosterService(
	subtasks repository.SubtaskRepo,
	assignments repository.AssignmentRepo,
	events repository.RosterEventRepo,
	uow db.UnitOfWork,
	opts ...Option,
) RosterService {
	return &rosterService{
		subtasks:    subtasks,
		assignments: assignments,
		events:      events,
		uow:         uow,
		opts:        newOptions(opts),
	}
}

// Assign adds employees to the roster. Already active employees are
// skipped; previously removed ones get a new membership period.
func (s *rosterService) Assign(ctx context.Context, in AssignInput) (res *RosterResult, err error) {
	defer observe(ctx, s.opts.observer, "roster-assign", time.Now(),
		map[string]any{"subtask_id": in.SubtaskID, "requested": len(in.EmployeeIDs)}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Actor); err != nil {
		return nil, err
	}

	res = &RosterResult{Delta: domain.RosterDelta{SubtaskID: in.SubtaskID}}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubtasks := repository.NewSQLiteSubtaskRepo(tx)
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)

		st, err := txSubtasks.GetByID(ctx, in.SubtaskID)
		if err != nil {
			return err
		}
		if err := checkExpectedVersion("subtask", st.ID, in.ExpectedVersion, st.Version); err != nil {
			return err
		}
		if st.Status == domain.SubtaskCancelled {
			return &domain.ValidationError{Field: "subtask_id", Reason: "subtask " + st.ID + " is cancelled"}
		}

		now := s.opts.now()
		for _, empID := range notify.Audience(in.EmployeeIDs) {
			_, err := txAssignments.GetActive(ctx, st.ID, empID, domain.MemberEmployee)
			if err == nil {
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if err := openAssignment(ctx, tx, st.ID, empID, domain.MemberEmployee, in.Actor.ID, now); err != nil {
				return err
			}
			res.Delta.Added = append(res.Delta.Added, empID)
		}

		if !res.Delta.IsEmpty() {
			st.UpdatedAt = now
			if err := txSubtasks.Update(ctx, st); err != nil {
				return err
			}
		}
		res.Subtask = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Warnings = s.notifyRoster(ctx, res)
	return res, nil
}

// Remove soft-closes the employee's open assignment. Their submissions
// are untouched and keep counting toward the quota.
func (s *rosterService) Remove(ctx context.Context, in RemoveInput) (res *RosterResult, err error) {
	defer observe(ctx, s.opts.observer, "roster-remove", time.Now(),
		map[string]any{"subtask_id": in.SubtaskID, "employee_id": in.EmployeeID}, &err)

	if err = validateInput(in); err != nil {
		return nil, err
	}
	if err = validateActor(in.Actor); err != nil {
		return nil, err
	}

	res = &RosterResult{Delta: domain.RosterDelta{SubtaskID: in.SubtaskID}}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubtasks := repository.NewSQLiteSubtaskRepo(tx)

		st, err := txSubtasks.GetByID(ctx, in.SubtaskID)
		if err != nil {
			return err
		}
		if err := checkExpectedVersion("subtask", st.ID, in.ExpectedVersion, st.Version); err != nil {
			return err
		}

		now := s.opts.now()
		if err := closeAssignment(ctx, tx, st.ID, in.EmployeeID, domain.MemberEmployee, in.Actor.ID, now); err != nil {
			return err
		}
		res.Delta.Removed = append(res.Delta.Removed, in.EmployeeID)

		st.UpdatedAt = now
		if err := txSubtasks.Update(ctx, st); err != nil {
			return err
		}
		res.Subtask = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Warnings = s.notifyRoster(ctx, res)
	return res, nil
}

// AssignTeamLead hands the subtask to a new TeamLead. The previous lead's
// period is closed in the same transaction.
func (s *rosterService) AssignTeamLead(ctx context.Context, subtaskID, teamLeadID string, actor domain.Actor) (res *RosterResult, err error) {
	defer observe(ctx, s.opts.observer, "roster-assign-lead", time.Now(),
		map[string]any{"subtask_id": subtaskID, "team_lead_id": teamLeadID}, &err)

	if subtaskID == "" {
		return nil, &domain.ValidationError{Field: "subtask_id", Reason: "is required"}
	}
	if teamLeadID == "" {
		return nil, &domain.ValidationError{Field: "team_lead_id", Reason: "is required"}
	}
	if err = validateActor(actor); err != nil {
		return nil, err
	}

	res = &RosterResult{Delta: domain.RosterDelta{SubtaskID: subtaskID}}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubtasks := repository.NewSQLiteSubtaskRepo(tx)

		st, err := txSubtasks.GetByID(ctx, subtaskID)
		if err != nil {
			return err
		}
		res.Subtask = st
		if st.TeamLeadID == teamLeadID {
			return nil
		}

		now := s.opts.now()
		previous := st.TeamLeadID
		err = closeAssignment(ctx, tx, st.ID, previous, domain.MemberTeamLead, actor.ID, now)
		switch {
		case err == nil:
			res.Delta.Removed = append(res.Delta.Removed, previous)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		if err := openAssignment(ctx, tx, st.ID, teamLeadID, domain.MemberTeamLead, actor.ID, now); err != nil {
			return err
		}
		res.Delta.Added = append(res.Delta.Added, teamLeadID)

		st.TeamLeadID = teamLeadID
		st.UpdatedAt = now
		return txSubtasks.Update(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	res.Warnings = s.notifyRoster(ctx, res)
	return res, nil
}

// ActiveRoster returns the open assignments of every role.
func (s *rosterService) ActiveRoster(ctx context.Context, subtaskID string) ([]*domain.Assignment, error) {
	all, err := s.Assignments(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	active := make([]*domain.Assignment, 0, len(all))
	for _, a := range all {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return active, nil
}

// Assignments returns every membership period, open or closed.
func (s *rosterService) Assignments(ctx context.Context, subtaskID string) ([]*domain.Assignment, error) {
	if _, err := s.subtasks.GetByID(ctx, subtaskID); err != nil {
		return nil, err
	}
	return s.assignments.ListBySubtask(ctx, subtaskID)
}

func (s *rosterService) History(ctx context.Context, subtaskID string) ([]*domain.RosterEvent, error) {
	if _, err := s.subtasks.GetByID(ctx, subtaskID); err != nil {
		return nil, err
	}
	return s.events.ListBySubtask(ctx, subtaskID)
}

func (s *rosterService) notifyRoster(ctx context.Context, res *RosterResult) []string {
	if res.Delta.IsEmpty() {
		return nil
	}
	ids := append(append([]string{}, res.Delta.Added...), res.Delta.Removed...)
	ids = append(ids, res.Subtask.TeamLeadID)
	ev := notify.RosterChanged{
		SubtaskID:  res.Delta.SubtaskID,
		Added:      res.Delta.Added,
		Removed:    res.Delta.Removed,
		Recipients: notify.Audience(ids),
	}
	return dispatchAll(ctx, s.opts.dispatcher, s.opts.logger, []notify.Event{ev})
}

// openAssignment starts a membership period and records it in the roster
// history.
func openAssignment(ctx context.Context, tx db.DBTX, subtaskID, memberID string, role domain.MemberRole, actorID string, now time.Time) error {
	a := &domain.Assignment{
		ID:         uuid.New().String(),
		SubtaskID:  subtaskID,
		MemberID:   memberID,
		MemberRole: role,
		AssignedBy: actorID,
		AssignedAt: now,
	}
	if err := repository.NewSQLiteAssignmentRepo(tx).Create(ctx, a); err != nil {
		return err
	}
	return appendRosterEvent(ctx, tx, subtaskID, domain.RosterAssigned, memberID, role, actorID, now)
}

// closeAssignment ends the member's open period. It returns a not-found
// error when no period is open.
func closeAssignment(ctx context.Context, tx db.DBTX, subtaskID, memberID string, role domain.MemberRole, actorID string, now time.Time) error {
	txAssignments := repository.NewSQLiteAssignmentRepo(tx)
	a, err := txAssignments.GetActive(ctx, subtaskID, memberID, role)
	if err != nil {
		return err
	}
	if err := a.Close(actorID, now); err != nil {
		return err
	}
	if err := txAssignments.Close(ctx, a); err != nil {
		return err
	}
	return appendRosterEvent(ctx, tx, subtaskID, domain.RosterRemoved, memberID, role, actorID, now)
}

func appendRosterEvent(ctx context.Context, tx db.DBTX, subtaskID string, action domain.RosterAction, memberID string, role domain.MemberRole, actorID string, now time.Time) error {
	seq, err := repository.NewSQLiteSequenceRepo(tx).Next(ctx, "roster:"+subtaskID)
	if err != nil {
		return err
	}
	return repository.NewSQLiteRosterEventRepo(tx).Append(ctx, &domain.RosterEvent{
		ID:         uuid.New().String(),
		SubtaskID:  subtaskID,
		Seq:        seq,
		Action:     action,
		MemberID:   memberID,
		MemberRole: role,
		ActorID:    actorID,
		CreatedAt:  now,
	})
}
