package messaging

// CommentCreated is published to comment.created by the comment API after a
// comment is persisted (always in published status; moderation never blocks
// posting).
type CommentCreated struct {
	CommentID string `json:"comment_id"`
	AppID     string `json:"app_id"`
	UserID    string `json:"user_id"`
	ParentID  string `json:"parent_id,omitempty"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	Ts        int64  `json:"ts"` // unix millis
}

// Verdict is published to moderation.result.<app_id> after the worker has
// evaluated a comment, and mirrored to the admin live feed.
type Verdict struct {
	CommentID  string   `json:"comment_id"`
	AppID      string   `json:"app_id"`
	UserID     string   `json:"user_id"`
	Allowed    bool     `json:"allowed"`
	Violations []string `json:"violations,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	SpamScore  int      `json:"spam_score,omitempty"`
	Similarity float64  `json:"similarity,omitempty"`
	LinkCount  int      `json:"link_count"`
	ReportID   string   `json:"report_id,omitempty"`
	Ts         int64    `json:"ts"` // unix millis
}
