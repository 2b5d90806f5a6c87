package moderation

import (
	"strings"
	"testing"
)

func TestCheckSpam_Signals(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name   string
		input  string
		score  int
		reason string
	}{
		{"repeated characters", "hellooooooo", 30, "excessive repeated characters"},
		{"repeated punctuation run", "wow!!!!!", 30, "excessive repeated characters"},
		{"caps ratio and caps words", "HELLO WORLD FRIENDS", 40, "excessive capitalization (100%)"},
		{"punctuation bursts", "a!!! b???", 20, "excessive punctuation"},
		{"two keywords", "free money guaranteed", 30, "multiple spam keywords detected"},
		{"single keyword scores quietly", "guaranteed delivery", 10, ""},
		{"digit run", "call 12345678901 now", 20, "suspicious number pattern"},
		{"too many links", "https://a.com https://b.com https://c.com", 25, "too many links"},
		{"clean text", "this note taking app saved me hours", 0, ""},
		{"empty", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckSpam(tt.input, cfg)
			if result.Score != tt.score {
				t.Errorf("CheckSpam(%q).Score = %d, want %d (reasons=%v)", tt.input, result.Score, tt.score, result.Reasons)
			}
			if tt.reason != "" && !containsString(result.Reasons, tt.reason) {
				t.Errorf("CheckSpam(%q).Reasons = %v, want to include %q", tt.input, result.Reasons, tt.reason)
			}
		})
	}
}

func TestCheckSpam_RepeatedRunBoundary(t *testing.T) {
	cfg := testConfig() // MaxRepeatedChars = 5

	if result := CheckSpam("aaaa", cfg); result.Score != 0 {
		t.Errorf("four repeats scored %d, want 0", result.Score)
	}
	if result := CheckSpam("aaaaa", cfg); result.Score != 30 {
		t.Errorf("five repeats scored %d, want 30", result.Score)
	}
}

func TestCheckSpam_ScoreClamped(t *testing.T) {
	cfg := testConfig()
	input := "CLICK HERE BUY NOW FREE MONEY GUARANTEED WORK FROM HOME!!!!!! " +
		"12345678901 https://a.com https://b.com https://c.com"

	result := CheckSpam(input, cfg)
	if result.Score != 100 {
		t.Errorf("Score = %d, want clamped to 100 (reasons=%v)", result.Score, result.Reasons)
	}
	if !result.Spam {
		t.Error("expected Spam = true at clamped score")
	}
}

func TestCheckSpam_Threshold(t *testing.T) {
	cfg := testConfig()
	cfg.SpamScoreThreshold = 30

	result := CheckSpam("hellooooooo", cfg)
	if result.Score != 30 {
		t.Fatalf("Score = %d, want 30", result.Score)
	}
	if !result.Spam {
		t.Error("score at threshold should be spam")
	}

	cfg.SpamScoreThreshold = 31
	if result := CheckSpam("hellooooooo", cfg); result.Spam {
		t.Error("score below threshold should not be spam")
	}
}

func TestCheckSpam_Idempotent(t *testing.T) {
	cfg := testConfig()
	input := "BUY NOW!!! free money guaranteed https://a.com"

	first := CheckSpam(input, cfg)
	second := CheckSpam(input, cfg)

	if first.Score != second.Score {
		t.Errorf("scores differ across calls: %d vs %d", first.Score, second.Score)
	}
	if len(first.Reasons) != len(second.Reasons) {
		t.Errorf("reasons differ across calls: %v vs %v", first.Reasons, second.Reasons)
	}
}

// TestCheckSpam_KeywordMonotonic verifies that appending more spam keywords
// never lowers the score.
func TestCheckSpam_KeywordMonotonic(t *testing.T) {
	cfg := testConfig()

	keywords := []string{"free money", "guaranteed", "no risk", "get rich", "work from home"}
	prev := CheckSpam("a perfectly ordinary comment", cfg).Score

	text := "a perfectly ordinary comment"
	for _, kw := range keywords {
		text += " " + kw
		score := CheckSpam(text, cfg).Score
		if score < prev {
			t.Errorf("score decreased from %d to %d after adding %q", prev, score, kw)
		}
		prev = score
	}
}

func TestCheckSpam_CleanMessages(t *testing.T) {
	cfg := testConfig()

	clean := []string{
		"how do I export my data?",
		"version 2.0 fixed the crash for me",
		"it costs $5.99 per month",
		"see you in 2025",
		"great app!! really useful",
		"I got 42 out of 50 on the quiz",
	}

	for _, msg := range clean {
		result := CheckSpam(msg, cfg)
		if result.Spam {
			t.Errorf("CheckSpam(%q) flagged as spam (score=%d, reasons=%v)", msg, result.Score, result.Reasons)
		}
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// BenchmarkCheckSpam measures scorer throughput on a typical comment.
func BenchmarkCheckSpam(b *testing.B) {
	cfg := testConfig()
	msg := strings.Repeat("this is a perfectly normal comment about an app. ", 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CheckSpam(msg, cfg)
	}
}
