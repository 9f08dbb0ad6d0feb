package domain

import "time"

// Submission is one employee's completed form instance for a subtask.
// FormData and AttachmentRefs are opaque to the core.
type Submission struct {
	ID             string
	SubtaskID      string
	EmployeeID     string
	FormData       map[string]any
	AttachmentRefs []string

	ManagerStatus  TierStatus
	TeamLeadStatus TierStatus
	AdminStatus    TierStatus
	OverallStatus  OverallStatus

	CreatedAt time.Time
	UpdatedAt time.Time
	DecidedAt *time.Time

	Version int
}

// TierTransition is one append-only entry of a submission's decision log.
// The previous value is kept so earlier approvals stay answerable after a
// later correction.
type TierTransition struct {
	ID            string
	SubmissionID  string
	Seq           int
	Tier          Tier
	From          TierStatus
	To            TierStatus
	ActorID       string
	ActorRole     Role
	OverallBefore OverallStatus
	OverallAfter  OverallStatus
	CreatedAt     time.Time
}

// NewSubmission builds a submission whose tiers follow the subtask's
// approval chain.
func NewSubmission(id string, st *Subtask, employeeID string, formData map[string]any, refs []string, now time.Time) (*Submission, error) {
	s := &Submission{
		ID:             id,
		SubtaskID:      st.ID,
		EmployeeID:     employeeID,
		FormData:       formData,
		AttachmentRefs: refs,
		ManagerStatus:  st.InitialTierStatus(TierManager),
		TeamLeadStatus: st.InitialTierStatus(TierTeamLead),
		AdminStatus:    st.InitialTierStatus(TierAdmin),
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
	if s.FormData == nil {
		s.FormData = map[string]any{}
	}
	if s.AttachmentRefs == nil {
		s.AttachmentRefs = []string{}
	}
	if err := s.Recompute(); err != nil {
		return nil, err
	}
	return s, nil
}

// Tier returns the current status of tier t.
func (s *Submission) Tier(t Tier) TierStatus {
	switch t {
	case TierManager:
		return s.ManagerStatus
	case TierTeamLead:
		return s.TeamLeadStatus
	case TierAdmin:
		return s.AdminStatus
	}
	return ""
}

func (s *Submission) setTier(t Tier, v TierStatus) {
	switch t {
	case TierManager:
		s.ManagerStatus = v
	case TierTeamLead:
		s.TeamLeadStatus = v
	case TierAdmin:
		s.AdminStatus = v
	}
}

// Recompute derives OverallStatus from the tier triple. The cached value is
// never trusted over the tiers.
func (s *Submission) Recompute() error {
	overall, err := Resolve(s.ManagerStatus, s.TeamLeadStatus, s.AdminStatus)
	if err != nil {
		return err
	}
	s.OverallStatus = overall
	return nil
}

// CountsTowardQuota reports whether the TeamLead tier has approved.
func (s *Submission) CountsTowardQuota() bool {
	return QuotaStatus(s.TeamLeadStatus) == OverallApproved
}

// checkTierTransition enforces the per-tier state machine. A decided tier
// can be corrected to the opposite decision, never reopened.
func checkTierTransition(t Tier, from, to TierStatus) error {
	if !ValidTierStatuses[to] || to == TierNotApplicable {
		return invalid("status", "cannot set %s tier to %q", t, to)
	}
	if from == TierNotApplicable {
		return invalid("tier", "%s tier is not part of this submission's approval chain", t)
	}
	if from.IsDecided() && !to.IsDecided() {
		return invalid("status", "%s tier is %s and cannot return to %s", t, from, to)
	}
	return nil
}

// ApplyDecision writes one tier on behalf of actor. The actor's role must
// own the tier. A write equal to the current value is a no-op and returns a
// nil transition.
func (s *Submission) ApplyDecision(t Tier, to TierStatus, actor Actor, now time.Time) (*TierTransition, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	owned, ok := TierForRole(actor.Role)
	if !ok || owned != t {
		return nil, invalid("role", "role %s may not write the %s tier", actor.Role, t)
	}
	from := s.Tier(t)
	if from == "" {
		return nil, invalid("tier", "unknown tier %q", t)
	}
	if err := checkTierTransition(t, from, to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, nil
	}

	before := s.OverallStatus
	s.setTier(t, to)
	if err := s.Recompute(); err != nil {
		s.setTier(t, from)
		return nil, err
	}
	if s.DecidedAt == nil && s.OverallStatus.IsDecided() {
		s.DecidedAt = &now
	}
	s.UpdatedAt = now

	return &TierTransition{
		SubmissionID:  s.ID,
		Tier:          t,
		From:          from,
		To:            to,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		OverallBefore: before,
		OverallAfter:  s.OverallStatus,
		CreatedAt:     now,
	}, nil
}
