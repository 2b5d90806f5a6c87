package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/appgrid/community-moderation/internal/moderation"
)

var validTypes = map[string]bool{
	TypeGeneral: true,
	TypeFeature: true,
	TypeBug:     true,
}

var validStatuses = map[string]bool{
	StatusPublished:     true,
	StatusPendingReview: true,
	StatusRemoved:       true,
}

// Store manages comments in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a comment store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a comment. An empty ID is filled with a fresh UUID and an
// empty status defaults to published. Type and status are validated against
// the allowed sets, matching the CHECK constraints on the comments table.
func (s *Store) Create(ctx context.Context, c *Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusPublished
	}
	if !validTypes[c.Type] {
		return fmt.Errorf("comment: invalid type %q", c.Type)
	}
	if !validStatuses[c.Status] {
		return fmt.Errorf("comment: invalid status %q", c.Status)
	}

	var parentID sql.NullString
	if c.ParentID != "" {
		parentID = sql.NullString{String: c.ParentID, Valid: true}
	}

	const query = `
		INSERT INTO comments (id, app_id, user_id, parent_id, content, type, status, vote_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.AppID, c.UserID, parentID, c.Content, c.Type, c.Status, c.VoteCount,
	)
	if err != nil {
		return fmt.Errorf("comment: insert: %w", err)
	}
	return nil
}

// Get retrieves a comment by ID. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Comment, error) {
	const query = `
		SELECT id, app_id, user_id, parent_id, content, type, status, vote_count, created_at
		FROM comments WHERE id = $1`

	c, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("comment: get: %w", err)
	}
	return c, nil
}

// UpdateStatus moves a comment to a new lifecycle state. This is the admin
// moderation action; the moderation pipeline itself never calls it.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("comment: invalid status %q", status)
	}
	_, err := s.db.ExecContext(ctx, `UPDATE comments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("comment: update status: %w", err)
	}
	return nil
}

// Delete removes a comment. Reports referencing it are left in place as
// moderation history; their comment lookups simply become misses.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("comment: delete: %w", err)
	}
	return nil
}

// CountOrphaned returns the number of comments whose parent_id references a
// comment that no longer exists. Orphans are tolerated at read time and
// cleaned up by separate tooling; this count feeds integrity monitoring.
func (s *Store) CountOrphaned(ctx context.Context) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM comments c
		WHERE c.parent_id IS NOT NULL
		  AND NOT EXISTS (SELECT 1 FROM comments p WHERE p.id = c.parent_id)`

	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("comment: count orphaned: %w", err)
	}
	return count, nil
}

// ByUser returns all of a user's comments, newest first.
func (s *Store) ByUser(ctx context.Context, userID string) ([]Comment, error) {
	const query = `
		SELECT id, app_id, user_id, parent_id, content, type, status, vote_count, created_at
		FROM comments WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("comment: by user: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("comment: by user: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comment: by user: %w", err)
	}
	return comments, nil
}

// RecentComments implements moderation.HistoryStore. It returns the user's
// full history without a time filter; the table has no index on
// created_at, so the duplicate detector applies its window client-side.
func (s *Store) RecentComments(ctx context.Context, userID string) ([]moderation.CommentSnapshot, error) {
	const query = `SELECT id, content, created_at FROM comments WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("comment: recent: %w", err)
	}
	defer rows.Close()

	var snaps []moderation.CommentSnapshot
	for rows.Next() {
		var snap moderation.CommentSnapshot
		if err := rows.Scan(&snap.ID, &snap.Content, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("comment: recent: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comment: recent: %w", err)
	}
	return snaps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*Comment, error) {
	var (
		c        Comment
		parentID sql.NullString
	)
	err := row.Scan(&c.ID, &c.AppID, &c.UserID, &parentID, &c.Content, &c.Type, &c.Status, &c.VoteCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.ParentID = parentID.String
	return &c, nil
}
