package moderation

import "regexp"

// maxMatchedLen bounds how much of a matched substring is recorded in
// results, so a pathological match can't bloat reports or logs.
const maxMatchedLen = 50

// CheckPatterns tests content against an ordered list of precompiled
// blocked patterns. Any single match vetoes the comment; there is no
// scoring. The matched substring of every hit is recorded (truncated) for
// admin review.
func CheckPatterns(content string, patterns []*regexp.Regexp) PatternResult {
	var matched []string
	for _, p := range patterns {
		if m := p.FindString(content); m != "" {
			matched = append(matched, truncate(m, maxMatchedLen))
		}
	}
	return PatternResult{
		Blocked:         len(matched) > 0,
		MatchedPatterns: matched,
	}
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
