package domain

import "sort"

// PriorityRank returns a sort rank (lower = more urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// SortWorkQueue orders a team lead's subtasks by the deterministic rules:
// 1. Open subtasks before completed or cancelled ones
// 2. Priority: high > medium > low
// 3. Due date: earliest first (nil last)
// 4. Created: oldest first
// 5. ID: lexical ascending
func SortWorkQueue(subtasks []*Subtask) {
	sort.SliceStable(subtasks, func(i, j int) bool {
		a, b := subtasks[i], subtasks[j]

		if ta, tb := a.Status.IsTerminal(), b.Status.IsTerminal(); ta != tb {
			return !ta
		}

		if ra, rb := PriorityRank(a.Priority), PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}

		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}

		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
