package domain

import "math"

// Progress is the quota state of one subtask.
type Progress struct {
	SubtaskID string
	Completed int
	Required  int
	Remaining int
	Percent   int
	QuotaMet  bool
}

// ComputeProgress counts distinct submissions approved at the TeamLead tier.
// Several approvals from the same employee each count; submissions of
// employees no longer on the roster still count.
func ComputeProgress(subtaskID string, required int, subs []*Submission) Progress {
	completed := 0
	for _, s := range subs {
		if s.CountsTowardQuota() {
			completed++
		}
	}
	return ProgressFromCounts(subtaskID, required, completed)
}

// ProgressFromCounts derives remaining and percent from raw counts.
func ProgressFromCounts(subtaskID string, required, completed int) Progress {
	if completed < 0 {
		completed = 0
	}
	remaining := required - completed
	if remaining < 0 {
		remaining = 0
	}
	pct := 0
	if required > 0 {
		pct = int(math.Round(100 * float64(completed) / float64(required)))
		pct = max(0, min(100, pct))
	}
	return Progress{
		SubtaskID: subtaskID,
		Completed: completed,
		Required:  required,
		Remaining: remaining,
		Percent:   pct,
		QuotaMet:  required > 0 && remaining == 0,
	}
}

// CanSubmit reports whether the subtask still accepts submissions.
func (p Progress) CanSubmit() bool {
	return p.Remaining > 0
}
