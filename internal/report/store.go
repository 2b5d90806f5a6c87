// Package report provides PostgreSQL-backed storage for moderation reports
// and the auto-flag generator that files them. A report captures which
// comment was flagged, by whom (a user or the system), and why, for admin
// review. Reports outlive the comments they reference: deleting a comment
// keeps its reports as moderation history.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Report lifecycle states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Report origins.
const (
	TypeUserReport = "user_report"
	TypeAutoFlag   = "auto_flag"
)

// SystemUserID marks reports filed by the moderation pipeline itself
// rather than a human reporter.
const SystemUserID = "system"

// validStatuses and validTypes match the CHECK constraints on the reports
// table.
var validStatuses = map[string]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

var validTypes = map[string]bool{
	TypeUserReport: true,
	TypeAutoFlag:   true,
}

// Report is a single moderation report to be persisted. Violations holds
// the error kinds that triggered an auto-flag and is empty for user
// reports.
type Report struct {
	ID         string
	CommentID  string
	UserID     string
	Reason     string
	Status     string
	Type       string
	Violations []string
	CreatedAt  time.Time
}

// Store manages reports in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a report store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a report. An empty ID is filled with a fresh UUID, an
// empty status defaults to pending. Violations are marshalled to JSONB.
func (s *Store) Create(ctx context.Context, r *Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if !validStatuses[r.Status] {
		return fmt.Errorf("report: invalid status %q", r.Status)
	}
	if !validTypes[r.Type] {
		return fmt.Errorf("report: invalid type %q", r.Type)
	}

	var violationsJSON []byte
	if len(r.Violations) > 0 {
		var err error
		violationsJSON, err = json.Marshal(r.Violations)
		if err != nil {
			return fmt.Errorf("report: marshal violations: %w", err)
		}
	}

	const query = `
		INSERT INTO reports (id, comment_id, user_id, reason, status, type, violations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.CommentID, r.UserID, r.Reason, r.Status, r.Type, violationsJSON,
	)
	if err != nil {
		return fmt.Errorf("report: insert: %w", err)
	}
	return nil
}

// ByStatus returns all reports in the given state, oldest first, so the
// review queue is worked in arrival order.
func (s *Store) ByStatus(ctx context.Context, status string) ([]Report, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("report: invalid status %q", status)
	}

	const query = `
		SELECT id, comment_id, user_id, reason, status, type, violations, created_at
		FROM reports WHERE status = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("report: by status: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var (
			r              Report
			violationsJSON []byte
		)
		if err := rows.Scan(&r.ID, &r.CommentID, &r.UserID, &r.Reason, &r.Status, &r.Type, &violationsJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("report: by status: %w", err)
		}
		if len(violationsJSON) > 0 {
			if err := json.Unmarshal(violationsJSON, &r.Violations); err != nil {
				return nil, fmt.Errorf("report: unmarshal violations: %w", err)
			}
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: by status: %w", err)
	}
	return reports, nil
}

// Resolve moves a pending report to approved or rejected.
func (s *Store) Resolve(ctx context.Context, id, status string) error {
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("report: invalid resolution %q", status)
	}
	_, err := s.db.ExecContext(ctx, `UPDATE reports SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("report: resolve: %w", err)
	}
	return nil
}

// CountRecent returns the number of reports filed within the window against
// comments authored by the given user. Useful for spotting repeat
// offenders in the admin UI.
func (s *Store) CountRecent(ctx context.Context, authorID string, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM reports r
		JOIN comments c ON c.id = r.comment_id
		WHERE c.user_id = $1
		  AND r.created_at >= NOW() - $2::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, authorID, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("report: count recent: %w", err)
	}
	return count, nil
}
