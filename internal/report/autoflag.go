package report

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/appgrid/community-moderation/internal/moderation"
)

// Sink persists reports. Satisfied by *Store; tests substitute fakes.
type Sink interface {
	Create(ctx context.Context, r *Report) error
}

// AutoFlagger files system reports for comments the moderation pipeline
// rejected. Filing is best-effort: the comment is already published by the
// time a report is filed, and a failed report must never surface to the
// posting user. It is logged and dropped.
type AutoFlagger struct {
	sink Sink
}

// NewAutoFlagger creates an auto-flagger writing to the given sink.
func NewAutoFlagger(sink Sink) *AutoFlagger {
	return &AutoFlagger{sink: sink}
}

// File creates an auto_flag report for the given comment from the
// moderation errors that rejected it. Returns the created report, or nil
// when persistence failed (already logged).
func (a *AutoFlagger) File(ctx context.Context, commentID string, errs []moderation.Error) *Report {
	violations := make([]string, len(errs))
	for i, e := range errs {
		violations[i] = string(e.Kind)
	}

	r := &Report{
		CommentID:  commentID,
		UserID:     SystemUserID,
		Reason:     Reason(errs),
		Status:     StatusPending,
		Type:       TypeAutoFlag,
		Violations: violations,
	}

	if err := a.sink.Create(ctx, r); err != nil {
		log.Printf("[report] auto-flag for comment=%s failed: %v", commentID, err)
		return nil
	}
	return r
}

// Reason renders one human-readable reason string from moderation errors,
// with a kind-specific rendering per error, for the admin review queue.
func Reason(errs []moderation.Error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = renderError(e)
	}
	return "Auto-flagged: " + strings.Join(parts, "; ")
}

func renderError(e moderation.Error) string {
	switch e.Kind {
	case moderation.KindProfanity:
		if words, ok := e.Details["violations"].([]string); ok && len(words) > 0 {
			return "Profanity: " + strings.Join(words, ", ")
		}
	case moderation.KindSpam:
		if score, ok := e.Details["score"].(int); ok {
			return fmt.Sprintf("Spam (score: %d)", score)
		}
	}
	return e.Message
}
