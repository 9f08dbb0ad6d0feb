package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
)

const submissionColumns = `id, subtask_id, employee_id, form_data, attachment_refs,
		manager_status, team_lead_status, admin_status, overall_status,
		version, created_at, updated_at, decided_at`

// SQLiteSubmissionRepo implements SubmissionRepo using a SQLite database.
// Form data and attachment references are stored as opaque JSON.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

// NewSQLiteSubmissionRepo creates a new SQLiteSubmissionRepo.
func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	formData, err := encodeJSON(s.FormData)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	refs, err := encodeJSON(s.AttachmentRefs)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	if s.Version == 0 {
		s.Version = 1
	}

	query := `INSERT INTO submissions (` + submissionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.SubtaskID,
		s.EmployeeID,
		formData,
		refs,
		string(s.ManagerStatus),
		string(s.TeamLeadStatus),
		string(s.AdminStatus),
		string(s.OverallStatus),
		s.Version,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
		nullableTimeToString(s.DecidedAt, timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "submission", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning submission: %w", err)
	}
	return s, nil
}

func (r *SQLiteSubmissionRepo) ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE subtask_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, subtaskID)
}

func (r *SQLiteSubmissionRepo) ListByEmployee(ctx context.Context, subtaskID, employeeID string) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
		WHERE subtask_id = ? AND employee_id = ?
		ORDER BY created_at, id`
	return r.list(ctx, query, subtaskID, employeeID)
}

// Update persists the tier statuses. Form data is immutable after creation.
func (r *SQLiteSubmissionRepo) Update(ctx context.Context, s *domain.Submission) error {
	query := `UPDATE submissions SET manager_status = ?, team_lead_status = ?, admin_status = ?,
		overall_status = ?, updated_at = ?, decided_at = ?, version = version + 1
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(s.ManagerStatus),
		string(s.TeamLeadStatus),
		string(s.AdminStatus),
		string(s.OverallStatus),
		formatTime(s.UpdatedAt),
		nullableTimeToString(s.DecidedAt, timeLayout),
		s.ID,
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("updating submission: %w", err)
	}
	if err := checkVersionedUpdate(ctx, r.db, res, "submission", "submissions", s.ID, s.Version); err != nil {
		return err
	}
	s.Version++
	return nil
}

func (r *SQLiteSubmissionRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning submission row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return out, nil
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	var formData, refs string
	var managerStr, teamLeadStr, adminStr, overallStr string
	var createdAtStr, updatedAtStr string
	var decidedAtStr sql.NullString

	err := row.Scan(
		&s.ID, &s.SubtaskID, &s.EmployeeID, &formData, &refs,
		&managerStr, &teamLeadStr, &adminStr, &overallStr,
		&s.Version, &createdAtStr, &updatedAtStr, &decidedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(formData), &s.FormData); err != nil {
		return nil, fmt.Errorf("decoding form_data: %w", err)
	}
	if err := json.Unmarshal([]byte(refs), &s.AttachmentRefs); err != nil {
		return nil, fmt.Errorf("decoding attachment_refs: %w", err)
	}
	s.ManagerStatus = domain.TierStatus(managerStr)
	s.TeamLeadStatus = domain.TierStatus(teamLeadStr)
	s.AdminStatus = domain.TierStatus(adminStr)
	s.OverallStatus = domain.OverallStatus(overallStr)

	if s.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	s.DecidedAt = parseNullableTime(decidedAtStr, timeLayout)
	return &s, nil
}
