package domain

// ErrNoApplicableTier is returned when every tier is not_applicable; such a
// submission has no approval chain and no overall status.
var ErrNoApplicableTier error = &ValidationError{Field: "tiers", Reason: "at least one tier must be applicable"}

// Resolve derives the overall status from the three tier statuses.
//
// Rejection dominates: any applicable rejected tier makes the whole
// submission rejected, whatever the other tiers say. Otherwise the result is
// approved when every applicable tier approved, in_progress when any
// applicable tier is actively reviewing, and pending in all other cases.
func Resolve(manager, teamLead, admin TierStatus) (OverallStatus, error) {
	tiers := [3]TierStatus{manager, teamLead, admin}

	applicable := 0
	approved := 0
	rejected := false
	reviewing := false
	for i, s := range tiers {
		if !ValidTierStatuses[s] {
			return "", invalid(string(Tiers[i]), "unknown tier status %q", s)
		}
		switch s {
		case TierNotApplicable:
			continue
		case TierRejected:
			rejected = true
		case TierApproved:
			approved++
		case TierInProgress:
			reviewing = true
		}
		applicable++
	}

	switch {
	case applicable == 0:
		return "", ErrNoApplicableTier
	case rejected:
		return OverallRejected, nil
	case approved == applicable:
		return OverallApproved, nil
	case reviewing:
		return OverallInProgress, nil
	default:
		return OverallPending, nil
	}
}

// QuotaStatus resolves only the TeamLead tier. The approval quota is
// satisfied by TeamLead sign-off regardless of the other tiers.
func QuotaStatus(teamLead TierStatus) OverallStatus {
	if teamLead == TierNotApplicable {
		return OverallPending
	}
	s, err := Resolve(TierNotApplicable, teamLead, TierNotApplicable)
	if err != nil {
		return OverallPending
	}
	return s
}
