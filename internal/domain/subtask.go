package domain

import "time"

// DefaultRequiredApprovals is the quota used when a subtask does not set one.
const DefaultRequiredApprovals = 1

// Subtask is a unit of delegated work owned by one TeamLead.
type Subtask struct {
	ID                    string
	TaskID                string
	TeamLeadID            string
	Title                 string
	RequiredApprovals     int
	Priority              Priority
	Status                SubtaskStatus
	RequiresManagerReview bool
	RequiresAdminReview   bool
	DueDate               *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Version is bumped on every write and checked on update.
	Version int
}

// Validate checks the invariants a subtask must satisfy before it is stored.
func (s *Subtask) Validate() error {
	if s.TaskID == "" {
		return invalid("task_id", "task id is required")
	}
	if s.TeamLeadID == "" {
		return invalid("team_lead_id", "team lead id is required")
	}
	if s.RequiredApprovals <= 0 {
		return invalid("required_approvals", "must be a positive integer, got %d", s.RequiredApprovals)
	}
	if !ValidPriorities[s.Priority] {
		return invalid("priority", "unknown priority %q", s.Priority)
	}
	return nil
}

// TierApplies reports whether the tier is part of this subtask's approval
// chain. The TeamLead tier always applies since it drives the quota.
func (s *Subtask) TierApplies(t Tier) bool {
	switch t {
	case TierManager:
		return s.RequiresManagerReview
	case TierTeamLead:
		return true
	case TierAdmin:
		return s.RequiresAdminReview
	}
	return false
}

// InitialTierStatus is the status a new submission starts with on tier t.
func (s *Subtask) InitialTierStatus(t Tier) TierStatus {
	if s.TierApplies(t) {
		return TierPending
	}
	return TierNotApplicable
}

// SyncWithProgress moves the subtask through its lifecycle based on the
// current quota progress. It reports whether the status changed and whether
// this call is the one that satisfied the quota.
func (s *Subtask) SyncWithProgress(p Progress, hasSubmissions bool, now time.Time) (changed, quotaMet bool) {
	if s.Status == SubtaskCancelled {
		return false, false
	}
	next := s.Status
	switch {
	case p.QuotaMet:
		next = SubtaskCompleted
	case hasSubmissions:
		next = SubtaskInProgress
	case s.Status == SubtaskCompleted:
		next = SubtaskInProgress
	}
	if next == s.Status {
		return false, false
	}
	quotaMet = next == SubtaskCompleted
	s.Status = next
	s.UpdatedAt = now
	return true, quotaMet
}

// Cancel closes the subtask without meeting its quota.
func (s *Subtask) Cancel(now time.Time) error {
	if s.Status.IsTerminal() {
		return invalid("status", "subtask %s is already %s", s.ID, s.Status)
	}
	s.Status = SubtaskCancelled
	s.UpdatedAt = now
	return nil
}
