package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Seq    int // thread-scoped sequence; 0 means don't display
	Level  int
	IsLast bool
	Body   string
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Bodies are printed under their title, indented to line up
// with it; detail badges are right-aligned on the title line.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		prefix  string
		indent  string
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// open[l] is true while an ancestor at level l still has siblings below.
	var open []bool
	for idx, item := range items {
		if len(open) < item.Level+1 {
			open = append(open, make([]bool, item.Level+1-len(open))...)
		}
		open = open[:item.Level+1]
		open[item.Level] = !item.IsLast

		var prefix, indent string
		if item.Level > 0 {
			for l := 1; l < item.Level; l++ {
				if open[l] {
					prefix += treePipe
				} else {
					prefix += treeBlank
				}
			}
			indent = prefix
			if item.IsLast {
				prefix += treeCorner
				indent += treeBlank
			} else {
				prefix += treeBranch
				indent += treePipe
			}
		}

		title := item.Title
		if item.Seq > 0 {
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.Seq)) + title
		}
		lines[idx] = lineInfo{prefix: prefix, indent: indent, content: prefix + title}
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		if w := lipgloss.Width(lines[idx].content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for idx, li := range lines {
		b.WriteString(li.content)
		if li.badge != "" {
			pad := max(0, maxContentWidth-lipgloss.Width(li.content))
			b.WriteString(strings.Repeat(" ", pad) + "  " + li.badge)
		}
		b.WriteString("\n")
		for _, line := range strings.Split(strings.TrimRight(items[idx].Body, "\n"), "\n") {
			if line == "" {
				continue
			}
			b.WriteString(StyleDim.Render(li.indent) + StyleFg.Render(line) + "\n")
		}
	}
	return b.String()
}

// FeedbackTreeItems lays out a nested thread for RenderTree. Roots sit at
// level 0 and replies one level below their parent.
func FeedbackTreeItems(roots []*domain.FeedbackNode, now time.Time) []TreeItem {
	var items []TreeItem
	domain.WalkThread(roots, func(n *domain.FeedbackNode, isLast bool) {
		e := n.Entry
		title := Bold(e.AuthorID) + " " + RoleBadge(e.AuthorRole) + " " + Dim(Timestamp(e.CreatedAt, now))
		var detail string
		if e.SubmissionID != nil {
			detail = "submission " + shortID(*e.SubmissionID)
		}
		items = append(items, TreeItem{
			Title:  title,
			Seq:    e.Seq,
			Level:  n.Depth,
			IsLast: isLast,
			Body:   e.Body,
			Detail: detail,
		})
	})
	return items
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
