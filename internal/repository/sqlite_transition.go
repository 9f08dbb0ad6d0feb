package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
)

const transitionColumns = `id, submission_id, seq, tier, from_status, to_status,
		actor_id, actor_role, overall_before, overall_after, created_at`

// SQLiteTransitionRepo implements TransitionRepo using a SQLite database.
type SQLiteTransitionRepo struct {
	db db.DBTX
}

// NewSQLiteTransitionRepo creates a new SQLiteTransitionRepo.
func NewSQLiteTransitionRepo(conn db.DBTX) *SQLiteTransitionRepo {
	return &SQLiteTransitionRepo{db: conn}
}

func (r *SQLiteTransitionRepo) Append(ctx context.Context, tr *domain.TierTransition) error {
	query := `INSERT INTO tier_transitions (` + transitionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tr.ID,
		tr.SubmissionID,
		tr.Seq,
		string(tr.Tier),
		string(tr.From),
		string(tr.To),
		tr.ActorID,
		string(tr.ActorRole),
		string(tr.OverallBefore),
		string(tr.OverallAfter),
		formatTime(tr.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting tier transition: %w", err)
	}
	return nil
}

func (r *SQLiteTransitionRepo) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.TierTransition, error) {
	query := `SELECT ` + transitionColumns + ` FROM tier_transitions
		WHERE submission_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("listing tier transitions: %w", err)
	}
	defer rows.Close()

	var out []*domain.TierTransition
	for rows.Next() {
		var tr domain.TierTransition
		var tier, from, to, role, before, after, createdAtStr string
		if err := rows.Scan(&tr.ID, &tr.SubmissionID, &tr.Seq, &tier, &from, &to,
			&tr.ActorID, &role, &before, &after, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning tier transition row: %w", err)
		}
		tr.Tier = domain.Tier(tier)
		tr.From = domain.TierStatus(from)
		tr.To = domain.TierStatus(to)
		tr.ActorRole = domain.Role(role)
		tr.OverallBefore = domain.OverallStatus(before)
		tr.OverallAfter = domain.OverallStatus(after)
		if tr.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tier transitions: %w", err)
	}
	return out, nil
}
