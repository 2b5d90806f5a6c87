// Package moderation implements the content moderation pipeline for
// user-submitted comments. Five detectors (profanity, blocked patterns,
// link validation, spam scoring, duplicate detection) run in cost-ascending
// order and their findings are aggregated into a single verdict that
// downstream code uses to auto-flag content for admin review.
package moderation

import (
	"os"
	"regexp"
	"strconv"
	"time"
)

// Config holds all moderation settings. It is loaded once at startup and
// treated as immutable afterwards; every Service invocation reads the same
// values.
type Config struct {
	Enabled    bool
	StrictMode bool // reserved for future tightening of warning bands

	// Link validation.
	MaxLinks           int
	AllowURLShorteners bool

	// Duplicate detection.
	DuplicateWindow              time.Duration
	DuplicateSimilarityThreshold float64

	// Spam scoring.
	SpamScoreThreshold  int
	MaxRepeatedChars    int
	MaxCapsRatio        float64
	MaxPunctuationRatio float64

	// Profanity.
	ProfanityEnabled bool
	AutoSanitize     bool

	// Blocked hostnames (substring match against URL hostnames) and
	// blocked content patterns. Patterns are compiled once here, never
	// per-call.
	BlockedDomains  []string
	BlockedPatterns []*regexp.Regexp
}

// defaultBlockedDomains are common spam/phishing redirector domains.
var defaultBlockedDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"ow.ly",
}

// defaultBlockedPatterns are phrasings common enough in spam that a single
// occurrence vetoes the comment outright.
var defaultBlockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)click here`),
	regexp.MustCompile(`(?i)buy now`),
	regexp.MustCompile(`(?i)limited time`),
	regexp.MustCompile(`(?i)act now`),
	regexp.MustCompile(`(?i)free money`),
	regexp.MustCompile(`(?i)make money fast`),
}

// DefaultConfig returns the moderation settings used when no environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		Enabled:                      true,
		StrictMode:                   false,
		MaxLinks:                     2,
		AllowURLShorteners:           false,
		DuplicateWindow:              5 * time.Minute,
		DuplicateSimilarityThreshold: 0.9,
		SpamScoreThreshold:           70,
		MaxRepeatedChars:             5,
		MaxCapsRatio:                 0.5,
		MaxPunctuationRatio:          0.2,
		ProfanityEnabled:             true,
		AutoSanitize:                 false,
		BlockedDomains:               defaultBlockedDomains,
		BlockedPatterns:              defaultBlockedPatterns,
	}
}

// FromEnv builds a Config from environment variables, falling back to the
// defaults for anything unset or unparsable.
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.Enabled = envBool("MODERATION_ENABLED", cfg.Enabled)
	cfg.StrictMode = envBool("MODERATION_STRICT_MODE", cfg.StrictMode)
	cfg.MaxLinks = envInt("MAX_LINKS_PER_COMMENT", cfg.MaxLinks)
	cfg.AllowURLShorteners = envBool("ALLOW_URL_SHORTENERS", cfg.AllowURLShorteners)
	if n := envInt("DUPLICATE_CHECK_WINDOW_MINUTES", int(cfg.DuplicateWindow/time.Minute)); n > 0 {
		cfg.DuplicateWindow = time.Duration(n) * time.Minute
	}
	cfg.DuplicateSimilarityThreshold = envFloat("DUPLICATE_SIMILARITY_THRESHOLD", cfg.DuplicateSimilarityThreshold)
	cfg.SpamScoreThreshold = envInt("SPAM_SCORE_THRESHOLD", cfg.SpamScoreThreshold)
	cfg.MaxRepeatedChars = envInt("MAX_REPEATED_CHARS", cfg.MaxRepeatedChars)
	cfg.MaxCapsRatio = envFloat("MAX_CAPS_RATIO", cfg.MaxCapsRatio)
	cfg.MaxPunctuationRatio = envFloat("MAX_PUNCTUATION_RATIO", cfg.MaxPunctuationRatio)
	cfg.ProfanityEnabled = envBool("PROFANITY_FILTER_ENABLED", cfg.ProfanityEnabled)
	cfg.AutoSanitize = envBool("AUTO_SANITIZE_PROFANITY", cfg.AutoSanitize)

	return cfg
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
