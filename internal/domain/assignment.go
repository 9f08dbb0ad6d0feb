package domain

import "time"

// Assignment is one membership period of a member on a subtask roster.
// Removal closes the period; the row itself is kept.
type Assignment struct {
	ID         string
	SubtaskID  string
	MemberID   string
	MemberRole MemberRole
	AssignedBy string
	AssignedAt time.Time
	RemovedAt  *time.Time
	RemovedBy  string
}

func (a *Assignment) IsActive() bool {
	return a.RemovedAt == nil
}

// Close soft-closes the membership period.
func (a *Assignment) Close(by string, now time.Time) error {
	if a.RemovedAt != nil {
		return notFound("active assignment", a.MemberID)
	}
	a.RemovedAt = &now
	a.RemovedBy = by
	return nil
}

// RosterEvent is one ordered entry of a subtask's roster history.
type RosterEvent struct {
	ID         string
	SubtaskID  string
	Seq        int
	Action     RosterAction
	MemberID   string
	MemberRole MemberRole
	ActorID    string
	CreatedAt  time.Time
}

// RosterDelta lists the members added and removed by one roster operation.
type RosterDelta struct {
	SubtaskID string
	Added     []string
	Removed   []string
}

func (d RosterDelta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
