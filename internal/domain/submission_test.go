package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

var (
	manager  = Actor{ID: "m1", Role: RoleManager}
	teamLead = Actor{ID: "tl1", Role: RoleTeamLead}
	admin    = Actor{ID: "a1", Role: RoleAdmin}
	employee = Actor{ID: "e1", Role: RoleEmployee}
)

func newTestSubmission(t *testing.T, st *Subtask) *Submission {
	t.Helper()
	s, err := NewSubmission("sub-1", st, "e1", nil, nil, testNow)
	require.NoError(t, err)
	return s
}

func TestNewSubmission_FollowsApprovalChain(t *testing.T) {
	st := &Subtask{ID: "st", RequiresManagerReview: true}
	s := newTestSubmission(t, st)
	assert.Equal(t, TierPending, s.ManagerStatus)
	assert.Equal(t, TierPending, s.TeamLeadStatus)
	assert.Equal(t, TierNotApplicable, s.AdminStatus)
	assert.Equal(t, OverallPending, s.OverallStatus)
	assert.Nil(t, s.DecidedAt)
	assert.NotNil(t, s.FormData)
	assert.NotNil(t, s.AttachmentRefs)
}

func TestApplyDecision_DecidedAtOnFirstDecision(t *testing.T) {
	st := &Subtask{ID: "st", RequiresManagerReview: true}
	s := newTestSubmission(t, st)

	tr, err := s.ApplyDecision(TierManager, TierApproved, manager, testNow)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, OverallPending, s.OverallStatus)
	assert.Nil(t, s.DecidedAt, "manager approval alone is not a decision")

	rejectAt := testNow.Add(time.Minute)
	tr, err = s.ApplyDecision(TierTeamLead, TierRejected, teamLead, rejectAt)
	require.NoError(t, err)
	assert.Equal(t, OverallRejected, s.OverallStatus)
	assert.Equal(t, OverallPending, tr.OverallBefore)
	assert.Equal(t, OverallRejected, tr.OverallAfter)
	require.NotNil(t, s.DecidedAt)
	assert.Equal(t, rejectAt, *s.DecidedAt)

	// A later correction changes the overall status but not DecidedAt.
	_, err = s.ApplyDecision(TierTeamLead, TierApproved, teamLead, rejectAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, OverallApproved, s.OverallStatus)
	assert.Equal(t, rejectAt, *s.DecidedAt)
}

func TestApplyDecision_RoleTierMismatch(t *testing.T) {
	st := &Subtask{ID: "st", RequiresAdminReview: true}
	s := newTestSubmission(t, st)

	_, err := s.ApplyDecision(TierAdmin, TierApproved, employee, testNow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.ApplyDecision(TierAdmin, TierApproved, teamLead, testNow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.ApplyDecision(TierAdmin, TierApproved, admin, testNow)
	assert.NoError(t, err)
}

func TestApplyDecision_NotApplicableTier(t *testing.T) {
	s := newTestSubmission(t, &Subtask{ID: "st"})
	_, err := s.ApplyDecision(TierAdmin, TierApproved, admin, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, TierNotApplicable, s.AdminStatus)
}

func TestApplyDecision_NoReturnToPending(t *testing.T) {
	s := newTestSubmission(t, &Subtask{ID: "st"})
	_, err := s.ApplyDecision(TierTeamLead, TierApproved, teamLead, testNow)
	require.NoError(t, err)

	_, err = s.ApplyDecision(TierTeamLead, TierPending, teamLead, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.ApplyDecision(TierTeamLead, TierInProgress, teamLead, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, TierApproved, s.TeamLeadStatus)
}

func TestApplyDecision_SameValueIsNoop(t *testing.T) {
	s := newTestSubmission(t, &Subtask{ID: "st"})
	_, err := s.ApplyDecision(TierTeamLead, TierApproved, teamLead, testNow)
	require.NoError(t, err)

	tr, err := s.ApplyDecision(TierTeamLead, TierApproved, teamLead, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, testNow, s.UpdatedAt)
}

func TestApplyDecision_InProgressThenDecision(t *testing.T) {
	s := newTestSubmission(t, &Subtask{ID: "st"})
	_, err := s.ApplyDecision(TierTeamLead, TierInProgress, teamLead, testNow)
	require.NoError(t, err)
	assert.Equal(t, OverallInProgress, s.OverallStatus)
	assert.Nil(t, s.DecidedAt)

	_, err = s.ApplyDecision(TierTeamLead, TierApproved, teamLead, testNow)
	require.NoError(t, err)
	assert.Equal(t, OverallApproved, s.OverallStatus)
	assert.True(t, s.CountsTowardQuota())
}

func TestApplyDecision_RejectionNotOverriddenByOtherTier(t *testing.T) {
	s := newTestSubmission(t, &Subtask{ID: "st", RequiresAdminReview: true})
	_, err := s.ApplyDecision(TierTeamLead, TierRejected, teamLead, testNow)
	require.NoError(t, err)
	_, err = s.ApplyDecision(TierAdmin, TierApproved, admin, testNow)
	require.NoError(t, err)
	assert.Equal(t, OverallRejected, s.OverallStatus)
}
