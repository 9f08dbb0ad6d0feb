package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleTeamLead Role = "team_lead"
	RoleEmployee Role = "employee"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RoleAdmin: true, RoleManager: true, RoleTeamLead: true, RoleEmployee: true,
}

// Tier identifies one reviewing level of a Submission's approval chain.
type Tier string

const (
	TierManager  Tier = "manager"
	TierTeamLead Tier = "team_lead"
	TierAdmin    Tier = "admin"
)

// Tiers lists every tier in resolver argument order.
var Tiers = []Tier{TierManager, TierTeamLead, TierAdmin}

// TierForRole returns the tier a role is allowed to write.
// Employees have no tier.
func TierForRole(r Role) (Tier, bool) {
	switch r {
	case RoleManager:
		return TierManager, true
	case RoleTeamLead:
		return TierTeamLead, true
	case RoleAdmin:
		return TierAdmin, true
	default:
		return "", false
	}
}

type TierStatus string

const (
	TierPending       TierStatus = "pending"
	TierInProgress    TierStatus = "in_progress"
	TierApproved      TierStatus = "approved"
	TierRejected      TierStatus = "rejected"
	TierNotApplicable TierStatus = "not_applicable"
)

// ValidTierStatuses is the closed set of tier values.
var ValidTierStatuses = map[TierStatus]bool{
	TierPending: true, TierInProgress: true, TierApproved: true,
	TierRejected: true, TierNotApplicable: true,
}

// IsDecided reports whether the tier holds a final decision.
func (s TierStatus) IsDecided() bool {
	return s == TierApproved || s == TierRejected
}

type OverallStatus string

const (
	OverallPending    OverallStatus = "pending"
	OverallInProgress OverallStatus = "in_progress"
	OverallApproved   OverallStatus = "approved"
	OverallRejected   OverallStatus = "rejected"
)

// IsDecided reports whether the overall status is approved or rejected.
func (s OverallStatus) IsDecided() bool {
	return s == OverallApproved || s == OverallRejected
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true,
}

type SubtaskStatus string

const (
	SubtaskPending    SubtaskStatus = "pending"
	SubtaskInProgress SubtaskStatus = "in_progress"
	SubtaskCompleted  SubtaskStatus = "completed"
	SubtaskCancelled  SubtaskStatus = "cancelled"
)

// IsTerminal reports whether no further work is expected on the subtask.
func (s SubtaskStatus) IsTerminal() bool {
	return s == SubtaskCompleted || s == SubtaskCancelled
}

type MemberRole string

const (
	MemberEmployee MemberRole = "employee"
	MemberTeamLead MemberRole = "team_lead"
)

type RosterAction string

const (
	RosterAssigned RosterAction = "assigned"
	RosterRemoved  RosterAction = "removed"
)

type WorkItemKind string

const (
	WorkItemTask    WorkItemKind = "task"
	WorkItemSubtask WorkItemKind = "subtask"
)

// normalizeToken lowercases s and folds '-' and ' ' into '_', so that
// "In-Progress" and "in_progress" map to the same canonical value.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ParseTierStatus maps external spellings onto the canonical tier value.
func ParseTierStatus(s string) (TierStatus, error) {
	v := TierStatus(normalizeToken(s))
	if v == "na" || v == "n/a" {
		v = TierNotApplicable
	}
	if !ValidTierStatuses[v] {
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown tier status %q", s)}
	}
	return v, nil
}

// ParseRole maps external spellings onto the canonical role value.
func ParseRole(s string) (Role, error) {
	v := normalizeToken(s)
	if v == "teamlead" || v == "lead" {
		v = string(RoleTeamLead)
	}
	r := Role(v)
	if !ValidRoles[r] {
		return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", s)}
	}
	return r, nil
}

// ParsePriority maps external spellings onto the canonical priority value.
func ParsePriority(s string) (Priority, error) {
	p := Priority(normalizeToken(s))
	if !ValidPriorities[p] {
		return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", s)}
	}
	return p, nil
}

// ParseTier maps external spellings onto the canonical tier value.
func ParseTier(s string) (Tier, error) {
	v := normalizeToken(s)
	if v == "teamlead" || v == "lead" {
		v = string(TierTeamLead)
	}
	for _, t := range Tiers {
		if string(t) == v {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q", s)}
}
