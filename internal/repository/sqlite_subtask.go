package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
)

const subtaskColumns = `id, task_id, team_lead_id, title, required_approvals, priority, status,
		requires_manager_review, requires_admin_review, due_date, version, created_at, updated_at`

// SQLiteSubtaskRepo implements SubtaskRepo using a SQLite database.
type SQLiteSubtaskRepo struct {
	db db.DBTX
}

// NewSQLiteSubtaskRepo creates a new SQLiteSubtaskRepo.
func NewSQLiteSubtaskRepo(conn db.DBTX) *SQLiteSubtaskRepo {
	return &SQLiteSubtaskRepo{db: conn}
}

func (r *SQLiteSubtaskRepo) Create(ctx context.Context, s *domain.Subtask) error {
	if s.Version == 0 {
		s.Version = 1
	}
	query := `INSERT INTO subtasks (` + subtaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TaskID,
		s.TeamLeadID,
		s.Title,
		s.RequiredApprovals,
		string(s.Priority),
		string(s.Status),
		boolToInt(s.RequiresManagerReview),
		boolToInt(s.RequiresAdminReview),
		nullableTimeToString(s.DueDate, dateLayout),
		s.Version,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	return nil
}

func (r *SQLiteSubtaskRepo) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE id = ?`
	s, err := scanSubtask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "subtask", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning subtask: %w", err)
	}
	return s, nil
}

func (r *SQLiteSubtaskRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE task_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, taskID)
}

func (r *SQLiteSubtaskRepo) ListByTeamLead(ctx context.Context, teamLeadID string) ([]*domain.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE team_lead_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, teamLeadID)
}

func (r *SQLiteSubtaskRepo) Update(ctx context.Context, s *domain.Subtask) error {
	query := `UPDATE subtasks SET team_lead_id = ?, title = ?, required_approvals = ?, priority = ?,
		status = ?, requires_manager_review = ?, requires_admin_review = ?, due_date = ?,
		updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.TeamLeadID,
		s.Title,
		s.RequiredApprovals,
		string(s.Priority),
		string(s.Status),
		boolToInt(s.RequiresManagerReview),
		boolToInt(s.RequiresAdminReview),
		nullableTimeToString(s.DueDate, dateLayout),
		formatTime(s.UpdatedAt),
		s.ID,
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("updating subtask: %w", err)
	}
	if err := checkVersionedUpdate(ctx, r.db, res, "subtask", "subtasks", s.ID, s.Version); err != nil {
		return err
	}
	s.Version++
	return nil
}

func (r *SQLiteSubtaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Subtask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []*domain.Subtask
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subtask row: %w", err)
		}
		subtasks = append(subtasks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return subtasks, nil
}

func scanSubtask(row rowScanner) (*domain.Subtask, error) {
	var s domain.Subtask
	var priorityStr, statusStr, createdAtStr, updatedAtStr string
	var managerReview, adminReview int
	var dueDateStr sql.NullString

	err := row.Scan(
		&s.ID, &s.TaskID, &s.TeamLeadID, &s.Title, &s.RequiredApprovals, &priorityStr, &statusStr,
		&managerReview, &adminReview, &dueDateStr, &s.Version, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	s.Priority = domain.Priority(priorityStr)
	s.Status = domain.SubtaskStatus(statusStr)
	s.RequiresManagerReview = intToBool(managerReview)
	s.RequiresAdminReview = intToBool(adminReview)
	s.DueDate = parseNullableTime(dueDateStr, dateLayout)

	if s.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
