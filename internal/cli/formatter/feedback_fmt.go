package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
)

// FormatFeedbackFlat renders a thread in sequence order, one entry per block.
// Replies name the entry they answer.
func FormatFeedbackFlat(entries []*domain.FeedbackEntry, now time.Time) string {
	if len(entries) == 0 {
		return RenderBox("Feedback", Dim("No feedback yet."))
	}
	seqByID := make(map[string]int, len(entries))
	for _, e := range entries {
		seqByID[e.ID] = e.Seq
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Dim("#"+itoa(e.Seq)) + " " + Bold(e.AuthorID) + " " + RoleBadge(e.AuthorRole) +
			" " + Dim(Timestamp(e.CreatedAt, now)))
		if e.ParentID != nil {
			if seq, ok := seqByID[*e.ParentID]; ok {
				b.WriteString(StyleBlue.Render(" ↳ #" + itoa(seq)))
			}
		}
		b.WriteString("\n" + StyleFg.Render(e.Body) + "\n")
	}
	return RenderBox("Feedback", b.String())
}

// FormatFeedbackTree renders the nested thread view.
func FormatFeedbackTree(roots []*domain.FeedbackNode, now time.Time) string {
	if len(roots) == 0 {
		return RenderBox("Feedback", Dim("No feedback yet."))
	}
	return RenderBox("Feedback", RenderTree(FeedbackTreeItems(roots, now)))
}

// FormatFeedbackResult confirms a posted entry.
func FormatFeedbackResult(r *service.FeedbackResult) string {
	return StyleGreen.Render("✔ Posted #"+itoa(r.Entry.Seq)) + " " + Dim(r.Entry.ID) + "\n" + Warnings(r.Warnings)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
