package moderation

import (
	"fmt"
	"math"
	"regexp"
	"unicode"
)

// Per-signal point values for the additive spam score. The final score is
// clamped to [0,100] and compared against Config.SpamScoreThreshold.
const (
	pointsRepeatedChars = 30
	pointsCapsRatio     = 25
	pointsPunctuation   = 20
	pointsMultiKeyword  = 30
	pointsSingleKeyword = 10
	pointsTooManyLinks  = 25
	pointsAllCapsWords  = 15
	pointsDigitRun      = 20
)

// Compiled once at package init; Go's RE2 engine has no backreferences, so
// the repeated-character and digit-run checks are linear scans instead.
var (
	punctuationBurstRE = regexp.MustCompile(`[!?.]{2,}`)
	allCapsWordRE      = regexp.MustCompile(`\b[A-Z]{4,}\b`)
)

// spamKeywordREs are phrasings whose presence raises the spam score.
// Distinct from the hard blocklist in patterns.go: these contribute points
// rather than vetoing outright, so one marketing phrase in an otherwise
// normal comment doesn't block it.
var spamKeywordREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)click here`),
	regexp.MustCompile(`(?i)buy now`),
	regexp.MustCompile(`(?i)limited time`),
	regexp.MustCompile(`(?i)act now`),
	regexp.MustCompile(`(?i)free money`),
	regexp.MustCompile(`(?i)make money`),
	regexp.MustCompile(`(?i)work from home`),
	regexp.MustCompile(`(?i)get rich`),
	regexp.MustCompile(`(?i)guaranteed`),
	regexp.MustCompile(`(?i)no risk`),
}

// CheckSpam computes an additive spam score for content from independent
// heuristic signals. Deterministic and side-effect free: the same input
// always yields the same score.
func CheckSpam(content string, cfg Config) SpamResult {
	var reasons []string
	score := 0

	if hasRepeatedRun(content, cfg.MaxRepeatedChars) {
		reasons = append(reasons, "excessive repeated characters")
		score += pointsRepeatedChars
	}

	totalChars := 0
	capsChars := 0
	for _, r := range content {
		if unicode.IsSpace(r) {
			continue
		}
		totalChars++
		if unicode.IsUpper(r) {
			capsChars++
		}
	}

	if totalChars > 0 {
		capsRatio := float64(capsChars) / float64(totalChars)
		if capsRatio > cfg.MaxCapsRatio {
			reasons = append(reasons, fmt.Sprintf("excessive capitalization (%d%%)", int(math.Round(capsRatio*100))))
			score += pointsCapsRatio
		}
	}

	bursts := len(punctuationBurstRE.FindAllString(content, -1))
	if float64(bursts)/math.Max(float64(totalChars), 1) > cfg.MaxPunctuationRatio {
		reasons = append(reasons, "excessive punctuation")
		score += pointsPunctuation
	}

	keywordHits := 0
	for _, re := range spamKeywordREs {
		if re.MatchString(content) {
			keywordHits++
		}
	}
	switch {
	case keywordHits >= 2:
		reasons = append(reasons, "multiple spam keywords detected")
		score += pointsMultiKeyword
	case keywordHits == 1:
		score += pointsSingleKeyword
	}

	if len(extractURLs(content)) > cfg.MaxLinks {
		reasons = append(reasons, "too many links")
		score += pointsTooManyLinks
	}

	if len(allCapsWordRE.FindAllString(content, -1)) >= 3 {
		reasons = append(reasons, "multiple all-caps words")
		score += pointsAllCapsWords
	}

	if hasDigitRun(content, 10) {
		reasons = append(reasons, "suspicious number pattern")
		score += pointsDigitRun
	}

	if score > 100 {
		score = 100
	}

	return SpamResult{
		Spam:    score >= cfg.SpamScoreThreshold,
		Score:   score,
		Reasons: reasons,
	}
}

// hasRepeatedRun reports whether content contains a run of at least
// threshold identical consecutive characters.
func hasRepeatedRun(content string, threshold int) bool {
	if threshold <= 0 {
		threshold = 1
	}
	count := 1
	prev := rune(-1)
	for _, r := range content {
		if r == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = r
		}
	}
	return false
}

// hasDigitRun reports whether content contains a run of at least n
// consecutive ASCII digits (phone/card-like sequences).
func hasDigitRun(content string, n int) bool {
	count := 0
	for _, r := range content {
		if r >= '0' && r <= '9' {
			count++
			if count >= n {
				return true
			}
		} else {
			count = 0
		}
	}
	return false
}
