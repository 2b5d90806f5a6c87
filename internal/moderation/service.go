package moderation

import (
	"context"
	"strings"
	"time"
)

// Warning bands: findings that don't cross a hard threshold surface as
// warnings instead of errors so admins can watch borderline content.
const (
	spamWarnScore      = 30
	similarityWarnBand = 0.7
)

// Service is the moderation pipeline entry point. It is safe for
// concurrent use: Config is read-only after construction and the detectors
// keep no per-call state.
type Service struct {
	cfg     Config
	filter  *ProfanityFilter
	history HistoryStore
	now     func() time.Time
}

// NewService builds a Service over the given config and comment history
// store. Pass a comment.MemoryStore (or any other HistoryStore double) when
// running without duplicate-detection infrastructure.
func NewService(cfg Config, history HistoryStore) *Service {
	return &Service{
		cfg:     cfg,
		filter:  NewProfanityFilter(),
		history: history,
		now:     time.Now,
	}
}

// Config returns the settings the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// Moderate runs every detector against content and aggregates their
// findings into one Result. Detectors run in cost-ascending order; all of
// them contribute errors independently (a comment can be flagged for
// profanity and too many links at once), except the duplicate check, which
// only runs when everything cheaper passed; a duplicate of an
// already-invalid comment is not worth a store round trip.
//
// With moderation disabled by config, no detector runs and every input is
// allowed.
func (s *Service) Moderate(ctx context.Context, content, userID, appID string) Result {
	if !s.cfg.Enabled {
		return Result{Allowed: true}
	}

	var (
		errs     []Error
		warnings []string
		meta     Metadata
	)

	// 1. Profanity: cheap, in-memory.
	prof := s.filter.Check(content, s.cfg)
	if !prof.Clean {
		errs = append(errs, Error{
			Kind:    KindProfanity,
			Message: "Your comment contains inappropriate language",
			Details: map[string]any{"violations": prof.Violations},
		})
		meta.ProfanityCount = len(prof.Violations)
	}

	// 2. Blocked patterns: cheap.
	pat := CheckPatterns(content, s.cfg.BlockedPatterns)
	if pat.Blocked {
		errs = append(errs, Error{
			Kind:    KindBlockedPattern,
			Message: "Your comment contains blocked content",
			Details: map[string]any{"matchedPatterns": pat.MatchedPatterns},
		})
		meta.MatchedPatterns = pat.MatchedPatterns
	}

	// 3. Link validation: string scan plus per-URL parse.
	links := ValidateLinks(content, s.cfg)
	for _, v := range links.Violations {
		switch {
		case strings.HasPrefix(v, "Too many links"):
			errs = append(errs, Error{
				Kind:    KindTooManyLinks,
				Message: v,
			})
		case strings.HasPrefix(v, "Invalid URL"):
			errs = append(errs, Error{
				Kind:    KindInvalidLink,
				Message: "Your comment contains invalid links",
			})
		default:
			errs = append(errs, Error{
				Kind:    KindInvalidLink,
				Message: v,
			})
		}
	}
	meta.LinkCount = len(links.URLs)

	// 4. Spam scoring: several regex passes.
	spam := CheckSpam(content, s.cfg)
	if spam.Spam {
		errs = append(errs, Error{
			Kind:    KindSpam,
			Message: "Your comment appears to be spam",
			Details: map[string]any{"reasons": spam.Reasons, "score": spam.Score},
		})
		meta.SpamScore = spam.Score
	} else if spam.Score > spamWarnScore {
		warnings = append(warnings, "Your comment may be flagged as spam")
		meta.SpamScore = spam.Score
	}

	// 5. Duplicate detection: the only store round trip, skipped when any
	// cheaper check already failed.
	if len(errs) == 0 {
		dup := s.CheckDuplicates(ctx, userID, appID, content)
		if dup.Duplicate {
			errs = append(errs, Error{
				Kind:    KindDuplicate,
				Message: "You have already posted a similar comment recently",
				Details: map[string]any{"similarity": dup.Similarity, "existingCommentId": dup.ExistingCommentID},
			})
			meta.Similarity = dup.Similarity
		} else if dup.Similarity > similarityWarnBand {
			warnings = append(warnings, "Your comment is very similar to a previous one")
			meta.Similarity = dup.Similarity
		}
	}

	return Result{
		Allowed:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Metadata: meta,
	}
}

// UserMessage renders the single user-facing rejection string. It is
// deliberately generic regardless of which detectors fired so the response
// does not reveal moderation heuristics; error kinds stay in server logs
// and the admin UI.
func UserMessage(errs []Error) string {
	if len(errs) == 0 {
		return "Content approved"
	}
	return "Your comment does not meet our community guidelines. Please review and try again."
}
