package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
)

const quotaBarWidth = 10

// FormatTaskList renders tasks inside a bordered box.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	headers := []string{"ID", "TITLE", "CLIENT", "MANAGER", "STATUS", "CREATED"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Title),
			StyleFg.Render(t.ClientName),
			orDash(t.SubmittedBy),
			TaskStatusPill(t),
			Dim(Timestamp(t.CreatedAt, now)),
		})
	}
	return RenderBox("Tasks", RenderTable(headers, rows, "No tasks yet."))
}

// FormatTask renders a single task card.
func FormatTask(t *domain.Task, now time.Time) string {
	const w = 10
	var b strings.Builder
	b.WriteString(StyleBold.Render(t.Title) + "\n\n")
	b.WriteString(Field("id", w, Dim(t.ID)))
	b.WriteString(Field("status", w, TaskStatusPill(t)))
	b.WriteString(Field("client", w, orDash(t.ClientName)))
	b.WriteString(Field("form", w, orDash(t.FormID)))
	b.WriteString(Field("department", w, orDash(t.DepartmentID)))
	b.WriteString(Field("manager", w, orDash(t.SubmittedBy)))
	b.WriteString(Field("created", w, StyleFg.Render(Timestamp(t.CreatedAt, now))))
	if t.CompletedAt != nil {
		b.WriteString(Field("completed", w, StyleGreen.Render(Timestamp(*t.CompletedAt, now))))
	}
	if t.ArchivedAt != nil {
		b.WriteString(Field("archived", w, Dim(Timestamp(*t.ArchivedAt, now))))
	}
	return RenderBox("Task", b.String())
}

// FormatTaskProgress renders the task rollup followed by one quota row
// per subtask.
func FormatTaskProgress(tp *service.TaskProgress, now time.Time) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(tp.Task.Title) + "  " + TaskStatusPill(tp.Task) + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		RenderProgress(tp.Percent, quotaBarWidth),
		StyleFg.Render(fmt.Sprintf("%d/%d subtasks done", tp.TerminalSubtasks, tp.TotalSubtasks))))

	headers := []string{"SUBTASK", "LEAD", "STATUS", "QUOTA", "DUE"}
	rows := make([][]string, 0, len(tp.Subtasks))
	for _, sp := range tp.Subtasks {
		rows = append(rows, []string{
			subtaskLabel(sp.Subtask),
			orDash(sp.Subtask.TeamLeadID),
			SubtaskStatusPill(sp.Subtask.Status),
			RenderQuota(sp.Progress, quotaBarWidth),
			DueDate(sp.Subtask.DueDate, now),
		})
	}
	b.WriteString(RenderTable(headers, rows, "No subtasks yet."))
	return RenderBox("Progress", b.String())
}

// FormatSubtaskList renders subtasks inside a bordered box.
func FormatSubtaskList(subtasks []*domain.Subtask, now time.Time) string {
	headers := []string{"ID", "TITLE", "LEAD", "PRIORITY", "STATUS", "QUOTA", "DUE"}
	rows := make([][]string, 0, len(subtasks))
	for _, st := range subtasks {
		rows = append(rows, []string{
			TruncID(st.ID),
			Bold(subtaskLabel(st)),
			orDash(st.TeamLeadID),
			PriorityBadge(st.Priority),
			SubtaskStatusPill(st.Status),
			StyleFg.Render(fmt.Sprintf("%d", st.RequiredApprovals)),
			DueDate(st.DueDate, now),
		})
	}
	return RenderBox("Subtasks", RenderTable(headers, rows, "No subtasks."))
}

// FormatSubtask renders a subtask card with its approval chain and quota.
func FormatSubtask(st *domain.Subtask, p domain.Progress, now time.Time) string {
	const w = 8
	var b strings.Builder
	b.WriteString(StyleBold.Render(subtaskLabel(st)) + "\n\n")
	b.WriteString(Field("id", w, Dim(st.ID)))
	b.WriteString(Field("task", w, Dim(st.TaskID)))
	b.WriteString(Field("lead", w, orDash(st.TeamLeadID)))
	b.WriteString(Field("status", w, SubtaskStatusPill(st.Status)))
	b.WriteString(Field("priority", w, PriorityBadge(st.Priority)))
	b.WriteString(Field("chain", w, StyleFg.Render(approvalChain(st))))
	b.WriteString(Field("quota", w, RenderQuota(p, quotaBarWidth)))
	b.WriteString(Field("due", w, DueDate(st.DueDate, now)))
	b.WriteString(Field("version", w, Dim(fmt.Sprintf("%d", st.Version))))
	return RenderBox("Subtask", b.String())
}

func subtaskLabel(st *domain.Subtask) string {
	if strings.TrimSpace(st.Title) != "" {
		return st.Title
	}
	return shortID(st.ID)
}

// approvalChain lists the tiers that review submissions, e.g.
// "team_lead → manager".
func approvalChain(st *domain.Subtask) string {
	var tiers []string
	for _, t := range []domain.Tier{domain.TierTeamLead, domain.TierManager, domain.TierAdmin} {
		if st.TierApplies(t) {
			tiers = append(tiers, string(t))
		}
	}
	return strings.Join(tiers, " → ")
}
