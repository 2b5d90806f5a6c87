package moderation

// ErrorKind identifies which policy a piece of content violated.
type ErrorKind string

const (
	KindProfanity      ErrorKind = "profanity"
	KindSpam           ErrorKind = "spam"
	KindBlockedPattern ErrorKind = "blocked_pattern"
	KindInvalidLink    ErrorKind = "invalid_link"
	KindTooManyLinks   ErrorKind = "too_many_links"
	KindDuplicate      ErrorKind = "duplicate"
)

// Error describes a single policy violation found in a comment. A comment
// can accumulate several of these in one pass (e.g. profanity and too many
// links at the same time).
type Error struct {
	Kind    ErrorKind      `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Metadata carries diagnostic values from whichever detectors ran. It is
// surfaced to admins and logs only and never drives control flow. LinkCount
// is always present (possibly 0) whenever the pipeline ran.
type Metadata struct {
	ProfanityCount  int      `json:"profanity_count,omitempty"`
	SpamScore       int      `json:"spam_score,omitempty"`
	LinkCount       int      `json:"link_count"`
	Similarity      float64  `json:"similarity,omitempty"`
	MatchedPatterns []string `json:"matched_patterns,omitempty"`
}

// Result is the aggregated verdict for one piece of content.
// Invariant: Allowed is true exactly when Errors is empty.
type Result struct {
	Allowed  bool     `json:"allowed"`
	Errors   []Error  `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// PatternResult is the outcome of the blocked-pattern check.
type PatternResult struct {
	Blocked         bool
	MatchedPatterns []string
}

// ProfanityResult is the outcome of the profanity check. Sanitized is only
// populated when auto-sanitization is enabled and violations were found;
// callers decide whether to use it.
type ProfanityResult struct {
	Clean      bool
	Violations []string
	Sanitized  string
}

// SpamResult is the outcome of the spam scorer. Score is clamped to [0,100].
type SpamResult struct {
	Spam    bool
	Score   int
	Reasons []string
}

// LinkResult is the outcome of link validation.
type LinkResult struct {
	Valid      bool
	URLs       []string
	Violations []string
}

// DuplicateResult is the outcome of the duplicate check. Similarity is the
// highest score seen against the user's recent history, even when below the
// blocking threshold.
type DuplicateResult struct {
	Duplicate         bool
	Similarity        float64
	ExistingCommentID string
}
