// Package comment provides storage for app-directory comments: a
// PostgreSQL store for durable records and a Redis cache of each user's
// recent comments, which serves as the history source for duplicate
// detection.
package comment

import "time"

// Comment categories.
const (
	TypeGeneral = "general"
	TypeFeature = "feature"
	TypeBug     = "bug"
)

// Comment lifecycle states. Comments are created in StatusPublished
// (posting is never blocked by moderation) and only move to StatusRemoved
// through an explicit admin action.
const (
	StatusPublished     = "published"
	StatusPendingReview = "pending_review"
	StatusRemoved       = "removed"
)

// Comment is a single user comment on an app. ParentID references another
// comment for replies and is empty for thread roots; a dangling ParentID is
// tolerated as a data-integrity condition (see Store.CountOrphaned).
type Comment struct {
	ID        string
	AppID     string
	UserID    string
	ParentID  string
	Content   string
	Type      string
	Status    string
	VoteCount int
	CreatedAt time.Time
}
