package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chainValues = []TierStatus{TierPending, TierApproved, TierRejected, TierNotApplicable}

func TestResolve_AllCombinations(t *testing.T) {
	for _, m := range chainValues {
		for _, tl := range chainValues {
			for _, a := range chainValues {
				if m == TierNotApplicable && tl == TierNotApplicable && a == TierNotApplicable {
					continue
				}
				got, err := Resolve(m, tl, a)
				require.NoError(t, err, "m=%s t=%s a=%s", m, tl, a)

				again, err := Resolve(m, tl, a)
				require.NoError(t, err)
				assert.Equal(t, got, again, "resolve must be deterministic")

				triple := []TierStatus{m, tl, a}
				anyRejected, allApproved := false, true
				for _, s := range triple {
					if s == TierRejected {
						anyRejected = true
					}
					if s != TierNotApplicable && s != TierApproved {
						allApproved = false
					}
				}
				switch {
				case anyRejected:
					assert.Equal(t, OverallRejected, got, "rejection dominates: m=%s t=%s a=%s", m, tl, a)
				case allApproved:
					assert.Equal(t, OverallApproved, got, "m=%s t=%s a=%s", m, tl, a)
				default:
					assert.Equal(t, OverallPending, got, "m=%s t=%s a=%s", m, tl, a)
				}
			}
		}
	}
}

func TestResolve_AllNotApplicableIsError(t *testing.T) {
	_, err := Resolve(TierNotApplicable, TierNotApplicable, TierNotApplicable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestResolve_InProgress(t *testing.T) {
	got, err := Resolve(TierApproved, TierInProgress, TierNotApplicable)
	require.NoError(t, err)
	assert.Equal(t, OverallInProgress, got)

	got, err = Resolve(TierPending, TierInProgress, TierPending)
	require.NoError(t, err)
	assert.Equal(t, OverallInProgress, got)

	got, err = Resolve(TierInProgress, TierRejected, TierPending)
	require.NoError(t, err)
	assert.Equal(t, OverallRejected, got, "rejection still dominates a reviewing tier")
}

func TestResolve_ManagerApprovedTeamLeadPending(t *testing.T) {
	got, err := Resolve(TierApproved, TierPending, TierNotApplicable)
	require.NoError(t, err)
	assert.Equal(t, OverallPending, got)

	got, err = Resolve(TierApproved, TierRejected, TierNotApplicable)
	require.NoError(t, err)
	assert.Equal(t, OverallRejected, got)
}

func TestResolve_UnknownValue(t *testing.T) {
	_, err := Resolve(TierStatus("in-progress"), TierPending, TierPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuotaStatus(t *testing.T) {
	assert.Equal(t, OverallApproved, QuotaStatus(TierApproved))
	assert.Equal(t, OverallRejected, QuotaStatus(TierRejected))
	assert.Equal(t, OverallPending, QuotaStatus(TierPending))
	assert.Equal(t, OverallInProgress, QuotaStatus(TierInProgress))
	assert.Equal(t, OverallPending, QuotaStatus(TierNotApplicable))
}

func TestParseTierStatus_Normalizes(t *testing.T) {
	cases := map[string]TierStatus{
		"in-progress":    TierInProgress,
		"IN_PROGRESS":    TierInProgress,
		" Approved ":     TierApproved,
		"not-applicable": TierNotApplicable,
		"n/a":            TierNotApplicable,
	}
	for in, want := range cases {
		got, err := ParseTierStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTierStatus("maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseRoleAndTier(t *testing.T) {
	r, err := ParseRole("Team-Lead")
	require.NoError(t, err)
	assert.Equal(t, RoleTeamLead, r)

	tier, err := ParseTier("teamlead")
	require.NoError(t, err)
	assert.Equal(t, TierTeamLead, tier)

	_, err = ParseRole("client")
	assert.ErrorIs(t, err, ErrValidation)
}
