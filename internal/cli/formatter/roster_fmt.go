package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
)

// FormatRoster renders assignments. Closed periods show when and by whom
// the member was removed.
func FormatRoster(title string, as []*domain.Assignment, now time.Time) string {
	headers := []string{"MEMBER", "ROLE", "ASSIGNED", "BY", "REMOVED"}
	rows := make([][]string, 0, len(as))
	for _, a := range as {
		removed := StyleGreen.Render("active")
		if a.RemovedAt != nil {
			removed = Dim(Timestamp(*a.RemovedAt, now) + " by " + a.RemovedBy)
		}
		rows = append(rows, []string{
			Bold(a.MemberID),
			memberRole(a.MemberRole),
			Dim(Timestamp(a.AssignedAt, now)),
			orDash(a.AssignedBy),
			removed,
		})
	}
	return RenderBox(title, RenderTable(headers, rows, "Nobody assigned."))
}

// FormatRosterHistory renders the ordered roster event log.
func FormatRosterHistory(events []*domain.RosterEvent, now time.Time) string {
	headers := []string{"#", "ACTION", "MEMBER", "ROLE", "BY", "WHEN"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		action := StyleGreen.Render("+ assigned")
		if e.Action == domain.RosterRemoved {
			action = StyleRed.Render("- removed")
		}
		rows = append(rows, []string{
			Dim(itoa(e.Seq)),
			action,
			Bold(e.MemberID),
			memberRole(e.MemberRole),
			orDash(e.ActorID),
			Dim(Timestamp(e.CreatedAt, now)),
		})
	}
	return RenderBox("Roster history", RenderTable(headers, rows, "No roster changes."))
}

// FormatRosterResult summarizes one roster change.
func FormatRosterResult(r *service.RosterResult) string {
	var b strings.Builder
	if r.Delta.IsEmpty() {
		b.WriteString(Dim("No change: roster already up to date.") + "\n")
	}
	for _, id := range r.Delta.Added {
		b.WriteString(StyleGreen.Render("+ "+id) + "\n")
	}
	for _, id := range r.Delta.Removed {
		b.WriteString(StyleRed.Render("- "+id) + "\n")
	}
	b.WriteString(Warnings(r.Warnings))
	return b.String()
}

func memberRole(r domain.MemberRole) string {
	if r == domain.MemberTeamLead {
		return RoleBadge(domain.RoleTeamLead)
	}
	return RoleBadge(domain.Role(r))
}
