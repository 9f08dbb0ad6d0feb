package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL DEFAULT '',
		client_name   TEXT NOT NULL,
		form_id       TEXT NOT NULL,
		department_id TEXT NOT NULL DEFAULT '',
		submitted_by  TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		completed_at  TEXT,
		archived_at   TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_department ON tasks(department_id)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id                      TEXT PRIMARY KEY,
		task_id                 TEXT NOT NULL REFERENCES tasks(id),
		team_lead_id            TEXT NOT NULL,
		title                   TEXT NOT NULL DEFAULT '',
		required_approvals      INTEGER NOT NULL DEFAULT 1 CHECK(required_approvals > 0),
		priority                TEXT NOT NULL DEFAULT 'medium'
		                        CHECK(priority IN ('low','medium','high')),
		status                  TEXT NOT NULL DEFAULT 'pending'
		                        CHECK(status IN ('pending','in_progress','completed','cancelled')),
		requires_manager_review INTEGER NOT NULL DEFAULT 0,
		requires_admin_review   INTEGER NOT NULL DEFAULT 0,
		due_date                TEXT,
		version                 INTEGER NOT NULL DEFAULT 1,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_team_lead ON subtasks(team_lead_id)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id          TEXT PRIMARY KEY,
		subtask_id  TEXT NOT NULL REFERENCES subtasks(id),
		member_id   TEXT NOT NULL,
		member_role TEXT NOT NULL CHECK(member_role IN ('employee','team_lead')),
		assigned_by TEXT NOT NULL DEFAULT '',
		assigned_at TEXT NOT NULL,
		removed_at  TEXT,
		removed_by  TEXT NOT NULL DEFAULT ''
	)`,

	// At most one open membership period per member and role.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_open
		ON assignments(subtask_id, member_id, member_role) WHERE removed_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_member ON assignments(member_id)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id               TEXT PRIMARY KEY,
		subtask_id       TEXT NOT NULL REFERENCES subtasks(id),
		employee_id      TEXT NOT NULL,
		form_data        TEXT NOT NULL DEFAULT '{}',
		attachment_refs  TEXT NOT NULL DEFAULT '[]',
		manager_status   TEXT NOT NULL
		                 CHECK(manager_status IN ('pending','in_progress','approved','rejected','not_applicable')),
		team_lead_status TEXT NOT NULL
		                 CHECK(team_lead_status IN ('pending','in_progress','approved','rejected','not_applicable')),
		admin_status     TEXT NOT NULL
		                 CHECK(admin_status IN ('pending','in_progress','approved','rejected','not_applicable')),
		overall_status   TEXT NOT NULL
		                 CHECK(overall_status IN ('pending','in_progress','approved','rejected')),
		version          INTEGER NOT NULL DEFAULT 1,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		decided_at       TEXT,
		UNIQUE(employee_id, subtask_id, created_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_subtask ON submissions(subtask_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_employee ON submissions(employee_id)`,

	`CREATE TABLE IF NOT EXISTS tier_transitions (
		id             TEXT PRIMARY KEY,
		submission_id  TEXT NOT NULL REFERENCES submissions(id),
		seq            INTEGER NOT NULL,
		tier           TEXT NOT NULL CHECK(tier IN ('manager','team_lead','admin')),
		from_status    TEXT NOT NULL,
		to_status      TEXT NOT NULL,
		actor_id       TEXT NOT NULL,
		actor_role     TEXT NOT NULL,
		overall_before TEXT NOT NULL,
		overall_after  TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		UNIQUE(submission_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS roster_events (
		id          TEXT PRIMARY KEY,
		subtask_id  TEXT NOT NULL REFERENCES subtasks(id),
		seq         INTEGER NOT NULL,
		action      TEXT NOT NULL CHECK(action IN ('assigned','removed')),
		member_id   TEXT NOT NULL,
		member_role TEXT NOT NULL,
		actor_id    TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		UNIQUE(subtask_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS feedback_entries (
		id             TEXT PRIMARY KEY,
		work_item_id   TEXT NOT NULL,
		work_item_kind TEXT NOT NULL CHECK(work_item_kind IN ('task','subtask')),
		seq            INTEGER NOT NULL,
		author_id      TEXT NOT NULL,
		author_role    TEXT NOT NULL,
		body           TEXT NOT NULL,
		parent_id      TEXT REFERENCES feedback_entries(id),
		submission_id  TEXT REFERENCES submissions(id),
		created_at     TEXT NOT NULL,
		UNIQUE(work_item_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_parent ON feedback_entries(parent_id)`,

	// Per-scope monotonic counters for history ordering.
	`CREATE TABLE IF NOT EXISTS sequences (
		scope_id TEXT PRIMARY KEY,
		next_seq INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	// History tables are append-only.
	`CREATE TRIGGER IF NOT EXISTS trg_feedback_no_update BEFORE UPDATE ON feedback_entries
	BEGIN SELECT RAISE(ABORT, 'feedback entries are immutable'); END`,
	`CREATE TRIGGER IF NOT EXISTS trg_feedback_no_delete BEFORE DELETE ON feedback_entries
	BEGIN SELECT RAISE(ABORT, 'feedback entries are immutable'); END`,
	`CREATE TRIGGER IF NOT EXISTS trg_transitions_no_update BEFORE UPDATE ON tier_transitions
	BEGIN SELECT RAISE(ABORT, 'tier transitions are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS trg_transitions_no_delete BEFORE DELETE ON tier_transitions
	BEGIN SELECT RAISE(ABORT, 'tier transitions are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS trg_roster_events_no_update BEFORE UPDATE ON roster_events
	BEGIN SELECT RAISE(ABORT, 'roster events are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS trg_roster_events_no_delete BEFORE DELETE ON roster_events
	BEGIN SELECT RAISE(ABORT, 'roster events are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS trg_assignments_no_delete BEFORE DELETE ON assignments
	BEGIN SELECT RAISE(ABORT, 'assignments are soft-closed, never deleted'); END`,
}
