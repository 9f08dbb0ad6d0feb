package notify

import (
	"github.com/alexanderramin/quorum/internal/domain"
)

// Kind names an event type on the wire.
type Kind string

const (
	KindStatusChanged  Kind = "status_changed"
	KindRosterChanged  Kind = "roster_changed"
	KindQuotaMet       Kind = "quota_met"
	KindFeedbackPosted Kind = "feedback_posted"
)

// Event is a notification the core has decided to emit. The core picks the
// recipients; delivery belongs to the Dispatcher.
type Event interface {
	Kind() Kind
	RecipientIDs() []string
}

// StatusChanged fires when a submission's overall status moves.
type StatusChanged struct {
	SubmissionID string               `json:"submission_id"`
	SubtaskID    string               `json:"subtask_id"`
	OldOverall   domain.OverallStatus `json:"old_overall"`
	NewOverall   domain.OverallStatus `json:"new_overall"`
	Recipients   []string             `json:"recipients"`
}

func (e StatusChanged) Kind() Kind             { return KindStatusChanged }
func (e StatusChanged) RecipientIDs() []string { return e.Recipients }

// RosterChanged fires when an assign or remove changes the roster.
type RosterChanged struct {
	SubtaskID  string   `json:"subtask_id"`
	Added      []string `json:"added"`
	Removed    []string `json:"removed"`
	Recipients []string `json:"recipients"`
}

func (e RosterChanged) Kind() Kind             { return KindRosterChanged }
func (e RosterChanged) RecipientIDs() []string { return e.Recipients }

// QuotaMet fires once when a subtask's approval count reaches its quota.
type QuotaMet struct {
	SubtaskID  string   `json:"subtask_id"`
	TaskID     string   `json:"task_id"`
	Recipients []string `json:"recipients"`
}

func (e QuotaMet) Kind() Kind             { return KindQuotaMet }
func (e QuotaMet) RecipientIDs() []string { return e.Recipients }

// FeedbackPosted fires for every new feedback entry.
type FeedbackPosted struct {
	WorkItemID string   `json:"work_item_id"`
	EntryID    string   `json:"entry_id"`
	Recipients []string `json:"recipients"`
}

func (e FeedbackPosted) Kind() Kind             { return KindFeedbackPosted }
func (e FeedbackPosted) RecipientIDs() []string { return e.Recipients }

// Audience returns ids without blanks or duplicates, in first-seen order,
// leaving out anyone listed in exclude.
func Audience(ids []string, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude)+len(ids))
	for _, id := range exclude {
		skip[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || skip[id] {
			continue
		}
		skip[id] = true
		out = append(out, id)
	}
	return out
}
