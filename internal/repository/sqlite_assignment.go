package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
)

const assignmentColumns = `id, subtask_id, member_id, member_role, assigned_by, assigned_at, removed_at, removed_by`

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
// Rows are never deleted; removal sets removed_at.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (` + assignmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.SubtaskID,
		a.MemberID,
		string(a.MemberRole),
		a.AssignedBy,
		formatTime(a.AssignedAt),
		nullableTimeToString(a.RemovedAt, timeLayout),
		a.RemovedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) GetActive(ctx context.Context, subtaskID, memberID string, role domain.MemberRole) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE subtask_id = ? AND member_id = ? AND member_role = ? AND removed_at IS NULL`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, subtaskID, memberID, string(role)))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "active assignment", ID: memberID}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}
	return a, nil
}

func (r *SQLiteAssignmentRepo) ListActive(ctx context.Context, subtaskID string, role domain.MemberRole) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE subtask_id = ? AND member_role = ? AND removed_at IS NULL
		ORDER BY assigned_at, id`
	return r.list(ctx, query, subtaskID, string(role))
}

func (r *SQLiteAssignmentRepo) ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE subtask_id = ?
		ORDER BY assigned_at, id`
	return r.list(ctx, query, subtaskID)
}

func (r *SQLiteAssignmentRepo) Close(ctx context.Context, a *domain.Assignment) error {
	if a.RemovedAt == nil {
		return fmt.Errorf("closing assignment %s: removed_at not set", a.ID)
	}
	query := `UPDATE assignments SET removed_at = ?, removed_by = ?
		WHERE id = ? AND removed_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(*a.RemovedAt), a.RemovedBy, a.ID)
	if err != nil {
		return fmt.Errorf("closing assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: "active assignment", ID: a.MemberID}
	}
	return nil
}

func (r *SQLiteAssignmentRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	var a domain.Assignment
	var roleStr, assignedAtStr string
	var removedAtStr sql.NullString

	err := row.Scan(&a.ID, &a.SubtaskID, &a.MemberID, &roleStr, &a.AssignedBy,
		&assignedAtStr, &removedAtStr, &a.RemovedBy)
	if err != nil {
		return nil, err
	}
	a.MemberRole = domain.MemberRole(roleStr)
	if a.AssignedAt, err = parseTime(assignedAtStr); err != nil {
		return nil, fmt.Errorf("parsing assigned_at: %w", err)
	}
	a.RemovedAt = parseNullableTime(removedAtStr, timeLayout)
	return &a, nil
}
