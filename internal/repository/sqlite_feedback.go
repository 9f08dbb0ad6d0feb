package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
)

const feedbackColumns = `id, work_item_id, work_item_kind, seq, author_id, author_role,
		body, parent_id, submission_id, created_at`

// SQLiteFeedbackRepo implements FeedbackRepo using a SQLite database.
// Entries are insert-only; triggers reject updates and deletes.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

// NewSQLiteFeedbackRepo creates a new SQLiteFeedbackRepo.
func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

func (r *SQLiteFeedbackRepo) Append(ctx context.Context, e *domain.FeedbackEntry) error {
	query := `INSERT INTO feedback_entries (` + feedbackColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.WorkItemID,
		string(e.WorkItemKind),
		e.Seq,
		e.AuthorID,
		string(e.AuthorRole),
		e.Body,
		nullableString(e.ParentID),
		nullableString(e.SubmissionID),
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting feedback entry: %w", err)
	}
	return nil
}

func (r *SQLiteFeedbackRepo) GetByID(ctx context.Context, id string) (*domain.FeedbackEntry, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback_entries WHERE id = ?`
	e, err := scanFeedback(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "feedback entry", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning feedback entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteFeedbackRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.FeedbackEntry, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback_entries WHERE work_item_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, workItemID)
	if err != nil {
		return nil, fmt.Errorf("listing feedback entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.FeedbackEntry
	for rows.Next() {
		e, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback entries: %w", err)
	}
	return out, nil
}

func scanFeedback(row rowScanner) (*domain.FeedbackEntry, error) {
	var e domain.FeedbackEntry
	var kind, role, createdAtStr string
	var parentID, submissionID sql.NullString

	err := row.Scan(&e.ID, &e.WorkItemID, &kind, &e.Seq, &e.AuthorID, &role,
		&e.Body, &parentID, &submissionID, &createdAtStr)
	if err != nil {
		return nil, err
	}
	e.WorkItemKind = domain.WorkItemKind(kind)
	e.AuthorRole = domain.Role(role)
	e.ParentID = stringPtr(parentID)
	e.SubmissionID = stringPtr(submissionID)
	if e.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}
