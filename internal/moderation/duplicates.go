package moderation

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"
)

// CommentSnapshot is the slice of a stored comment the duplicate detector
// needs: identity, text, and when it was posted.
type CommentSnapshot struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// HistoryStore provides a user's comment history for duplicate detection.
// Implementations make no ordering guarantee and may return comments
// outside the duplicate window; the detector filters client-side because
// the backing stores do not support range queries on the timestamp.
type HistoryStore interface {
	RecentComments(ctx context.Context, userID string) ([]CommentSnapshot, error)
}

// CheckDuplicates compares candidate content against the user's comments
// posted within the configured sliding window. An exact match (after
// trim+lowercase) short-circuits with similarity 1.0; otherwise the highest
// bigram similarity is compared against the configured threshold.
//
// This is the only detector with an external dependency and the only one
// allowed to fail open: any store error is logged and reported as
// not-duplicate so an infrastructure hiccup never blocks posting.
func (s *Service) CheckDuplicates(ctx context.Context, userID, appID, content string) DuplicateResult {
	history, err := s.history.RecentComments(ctx, userID)
	if err != nil {
		log.Printf("[moderation] duplicate check for user=%s failed, failing open: %v", userID, err)
		return DuplicateResult{}
	}

	windowStart := s.now().Add(-s.cfg.DuplicateWindow)
	candidate := normalizeContent(content)

	var (
		maxSimilarity float64
		closestID     string
	)

	for _, c := range history {
		if c.CreatedAt.Before(windowStart) {
			continue
		}

		existing := normalizeContent(c.Content)
		if existing == candidate {
			return DuplicateResult{
				Duplicate:         true,
				Similarity:        1.0,
				ExistingCommentID: c.ID,
			}
		}

		if sim := bigramSimilarity(candidate, existing); sim > maxSimilarity {
			maxSimilarity = sim
			closestID = c.ID
		}
	}

	if maxSimilarity >= s.cfg.DuplicateSimilarityThreshold {
		return DuplicateResult{
			Duplicate:         true,
			Similarity:        maxSimilarity,
			ExistingCommentID: closestID,
		}
	}

	return DuplicateResult{Similarity: maxSimilarity}
}

func normalizeContent(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}

// bigramSimilarity computes the Sørensen–Dice coefficient over character
// bigrams of both strings with whitespace removed. Returns a value in
// [0,1]; strings shorter than one bigram after stripping score 0 unless
// identical.
func bigramSimilarity(a, b string) float64 {
	a = stripSpace(a)
	b = stripSpace(b)

	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(a)-1)
	for i := 0; i+2 <= len(a); i++ {
		bigrams[a[i:i+2]]++
	}

	matches := 0
	for i := 0; i+2 <= len(b); i++ {
		bg := b[i : i+2]
		if bigrams[bg] > 0 {
			bigrams[bg]--
			matches++
		}
	}

	return 2 * float64(matches) / float64(len(a)+len(b)-2)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
