package domain

import (
	"sort"
	"strings"
	"time"
)

// FeedbackEntry is one immutable comment on a task or subtask thread.
type FeedbackEntry struct {
	ID           string
	WorkItemID   string
	WorkItemKind WorkItemKind
	Seq          int
	AuthorID     string
	AuthorRole   Role
	Body         string
	ParentID     *string
	SubmissionID *string
	CreatedAt    time.Time
}

func (e *FeedbackEntry) IsReply() bool {
	return e.ParentID != nil
}

// Validate checks the entry on its own. Parent checks need the parent row
// and live in CheckParent.
func (e *FeedbackEntry) Validate() error {
	if e.WorkItemID == "" {
		return invalid("work_item_id", "work item id is required")
	}
	if strings.TrimSpace(e.Body) == "" {
		return invalid("body", "feedback body must not be empty")
	}
	if e.AuthorID == "" {
		return invalid("author_id", "author id is required")
	}
	if !ValidRoles[e.AuthorRole] {
		return invalid("author_role", "unknown role %q", e.AuthorRole)
	}
	return nil
}

// CheckParent verifies that parent may be replied to by e. A nil parent
// means the referenced id does not exist.
func (e *FeedbackEntry) CheckParent(parent *FeedbackEntry) error {
	if e.ParentID == nil {
		return nil
	}
	if parent == nil {
		return invalid("parent_id", "parent entry %s does not exist", *e.ParentID)
	}
	if parent.WorkItemID != e.WorkItemID {
		return invalid("parent_id", "parent entry %s belongs to another work item", parent.ID)
	}
	return nil
}

// FeedbackNode is one entry of the nested thread view.
type FeedbackNode struct {
	Entry   *FeedbackEntry
	Depth   int
	Replies []*FeedbackNode
}

// FlattenThread returns the entries in thread order (by sequence).
func FlattenThread(entries []*FeedbackEntry) []*FeedbackEntry {
	out := make([]*FeedbackEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// NestThread groups replies under their parents. Roots and replies keep
// sequence order. Entries whose parent is absent from the slice are
// treated as roots.
func NestThread(entries []*FeedbackEntry) []*FeedbackNode {
	flat := FlattenThread(entries)
	nodes := make(map[string]*FeedbackNode, len(flat))
	for _, e := range flat {
		nodes[e.ID] = &FeedbackNode{Entry: e}
	}

	var roots []*FeedbackNode
	for _, e := range flat {
		n := nodes[e.ID]
		if e.ParentID != nil {
			if parent, ok := nodes[*e.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	for _, r := range roots {
		setDepth(r, 0)
	}
	return roots
}

func setDepth(n *FeedbackNode, depth int) {
	n.Depth = depth
	for _, c := range n.Replies {
		setDepth(c, depth+1)
	}
}

// WalkThread visits nested nodes depth-first in display order.
func WalkThread(roots []*FeedbackNode, fn func(n *FeedbackNode, isLast bool)) {
	for i, r := range roots {
		walkNode(r, i == len(roots)-1, fn)
	}
}

func walkNode(n *FeedbackNode, isLast bool, fn func(*FeedbackNode, bool)) {
	fn(n, isLast)
	for i, c := range n.Replies {
		walkNode(c, i == len(n.Replies)-1, fn)
	}
}
