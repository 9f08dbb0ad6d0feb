package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
)

// FormatSubmissionList renders submissions with their per-tier statuses.
func FormatSubmissionList(subs []*domain.Submission, now time.Time) string {
	headers := []string{"ID", "EMPLOYEE", "MANAGER", "TEAM LEAD", "ADMIN", "OVERALL", "SUBMITTED"}
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.EmployeeID),
			TierStatusPill(s.ManagerStatus),
			TierStatusPill(s.TeamLeadStatus),
			TierStatusPill(s.AdminStatus),
			OverallStatusPill(s.OverallStatus),
			Dim(Timestamp(s.CreatedAt, now)),
		})
	}
	return RenderBox("Submissions", RenderTable(headers, rows, "No submissions."))
}

// FormatSubmission renders one submission card.
func FormatSubmission(s *domain.Submission, now time.Time) string {
	const w = 9
	var b strings.Builder
	b.WriteString(OverallStatusPill(s.OverallStatus) + "\n\n")
	b.WriteString(Field("id", w, Dim(s.ID)))
	b.WriteString(Field("subtask", w, Dim(s.SubtaskID)))
	b.WriteString(Field("employee", w, Bold(s.EmployeeID)))
	b.WriteString(Field("manager", w, TierStatusPill(s.ManagerStatus)))
	b.WriteString(Field("team lead", w, TierStatusPill(s.TeamLeadStatus)))
	b.WriteString(Field("admin", w, TierStatusPill(s.AdminStatus)))
	b.WriteString(Field("submitted", w, StyleFg.Render(Timestamp(s.CreatedAt, now))))
	if s.DecidedAt != nil {
		b.WriteString(Field("decided", w, StyleFg.Render(Timestamp(*s.DecidedAt, now))))
	}
	if len(s.AttachmentRefs) > 0 {
		b.WriteString(Field("files", w, StyleFg.Render(strings.Join(s.AttachmentRefs, ", "))))
	}
	b.WriteString(Field("version", w, Dim(fmt.Sprintf("%d", s.Version))))
	return RenderBox("Submission", b.String())
}

// FormatSubmitResult confirms a new submission and shows the quota after it.
func FormatSubmitResult(r *service.SubmitResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ Submitted ") + Dim(r.Submission.ID) + "\n")
	b.WriteString(RenderQuota(r.Progress, quotaBarWidth) + "\n")
	b.WriteString(Warnings(r.Warnings))
	return b.String()
}

// FormatDecision summarizes a tier write. A write that matched the stored
// value is reported as unchanged.
func FormatDecision(r *service.DecisionResult) string {
	var b strings.Builder
	if !r.Changed() {
		b.WriteString(Dim("No change: status already recorded.") + "\n")
	} else {
		tr := r.Transition
		b.WriteString(fmt.Sprintf("%s %s → %s\n",
			StyleBold.Render(string(tr.Tier)), TierStatusPill(tr.From), TierStatusPill(tr.To)))
		if tr.OverallBefore != tr.OverallAfter {
			b.WriteString(fmt.Sprintf("%s %s → %s\n",
				Dim("overall"), OverallStatusPill(tr.OverallBefore), OverallStatusPill(tr.OverallAfter)))
		}
	}
	b.WriteString(RenderQuota(r.Progress, quotaBarWidth) + "\n")
	if r.QuotaMet {
		b.WriteString(StyleGreen.Render("Quota met: subtask completed.") + "\n")
	}
	if r.Comment != nil {
		b.WriteString(Dim(fmt.Sprintf("Comment #%d posted.", r.Comment.Seq)) + "\n")
	}
	b.WriteString(Warnings(r.Warnings))
	return b.String()
}

// FormatTransitions renders a submission's decision log in order.
func FormatTransitions(ts []*domain.TierTransition, now time.Time) string {
	headers := []string{"#", "TIER", "FROM", "TO", "OVERALL", "BY", "WHEN"}
	rows := make([][]string, 0, len(ts))
	for _, tr := range ts {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", tr.Seq)),
			StyleFg.Render(string(tr.Tier)),
			TierStatusPill(tr.From),
			TierStatusPill(tr.To),
			OverallStatusPill(tr.OverallAfter),
			Bold(tr.ActorID) + " " + RoleBadge(tr.ActorRole),
			Dim(Timestamp(tr.CreatedAt, now)),
		})
	}
	return RenderBox("History", RenderTable(headers, rows, "No decisions recorded."))
}
