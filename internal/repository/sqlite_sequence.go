package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
)

// SQLiteSequenceRepo allocates per-scope sequence values from the
// sequences table. A scope is any id whose history needs a total order:
// a submission's transitions, a subtask's roster events, a work item's
// feedback thread.
type SQLiteSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteSequenceRepo creates a new SQLiteSequenceRepo.
func NewSQLiteSequenceRepo(conn db.DBTX) *SQLiteSequenceRepo {
	return &SQLiteSequenceRepo{db: conn}
}

// Next returns the next value for scopeID, starting at 1. Call it inside
// the transaction that writes the sequenced row so gaps cannot appear.
func (r *SQLiteSequenceRepo) Next(ctx context.Context, scopeID string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO sequences (scope_id, next_seq) VALUES (?, 1)`
	if _, err := r.db.ExecContext(ctx, seedQuery, scopeID); err != nil {
		return 0, fmt.Errorf("seeding sequence for %s: %w", scopeID, err)
	}

	var next int
	allocQuery := `UPDATE sequences
		SET next_seq = next_seq + 1
		WHERE scope_id = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, scopeID).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next seq for %s: %w", scopeID, err)
	}
	return next, nil
}
