package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
)

const rosterEventColumns = `id, subtask_id, seq, action, member_id, member_role, actor_id, created_at`

// SQLiteRosterEventRepo implements RosterEventRepo using a SQLite database.
type SQLiteRosterEventRepo struct {
	db db.DBTX
}

// NewSQLiteRosterEventRepo creates a new SQLiteRosterEventRepo.
func NewSQLiteRosterEventRepo(conn db.DBTX) *SQLiteRosterEventRepo {
	return &SQLiteRosterEventRepo{db: conn}
}

func (r *SQLiteRosterEventRepo) Append(ctx context.Context, e *domain.RosterEvent) error {
	query := `INSERT INTO roster_events (` + rosterEventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.SubtaskID,
		e.Seq,
		string(e.Action),
		e.MemberID,
		string(e.MemberRole),
		e.ActorID,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting roster event: %w", err)
	}
	return nil
}

func (r *SQLiteRosterEventRepo) ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.RosterEvent, error) {
	query := `SELECT ` + rosterEventColumns + ` FROM roster_events WHERE subtask_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, subtaskID)
	if err != nil {
		return nil, fmt.Errorf("listing roster events: %w", err)
	}
	defer rows.Close()

	var out []*domain.RosterEvent
	for rows.Next() {
		var e domain.RosterEvent
		var action, role, createdAtStr string
		if err := rows.Scan(&e.ID, &e.SubtaskID, &e.Seq, &action, &e.MemberID,
			&role, &e.ActorID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning roster event row: %w", err)
		}
		e.Action = domain.RosterAction(action)
		e.MemberRole = domain.MemberRole(role)
		if e.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster events: %w", err)
	}
	return out, nil
}
