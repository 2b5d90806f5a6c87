package moderation

import (
	"regexp"
	"strings"
	"testing"
)

func TestCheckPatterns_Blocked(t *testing.T) {
	patterns := DefaultConfig().BlockedPatterns

	tests := []struct {
		name    string
		input   string
		blocked bool
		matched string
	}{
		{"click here", "just click here to win", true, "click here"},
		{"buy now", "BUY NOW while stocks last", true, "BUY NOW"},
		{"act now", "Act Now or miss out", true, "Act Now"},
		{"free money", "get free money today", true, "free money"},
		{"make money fast", "make money fast online", true, "make money fast"},
		{"limited time", "LIMITED TIME offer", true, "LIMITED TIME"},
		{"clean message", "this app is great for note taking", false, ""},
		{"partial phrase", "click the button here", false, ""},
		{"empty content", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckPatterns(tt.input, patterns)
			if result.Blocked != tt.blocked {
				t.Errorf("CheckPatterns(%q).Blocked = %v, want %v", tt.input, result.Blocked, tt.blocked)
			}
			if tt.blocked {
				if len(result.MatchedPatterns) == 0 {
					t.Fatalf("CheckPatterns(%q) matched nothing", tt.input)
				}
				if result.MatchedPatterns[0] != tt.matched {
					t.Errorf("MatchedPatterns[0] = %q, want %q", result.MatchedPatterns[0], tt.matched)
				}
			}
		})
	}
}

func TestCheckPatterns_EmptyPatternList(t *testing.T) {
	inputs := []string{"click here", "buy now", "anything at all", ""}
	for _, input := range inputs {
		if result := CheckPatterns(input, nil); result.Blocked {
			t.Errorf("CheckPatterns(%q, nil).Blocked = true, want false", input)
		}
	}
}

func TestCheckPatterns_MultipleMatches(t *testing.T) {
	patterns := DefaultConfig().BlockedPatterns
	result := CheckPatterns("click here and buy now for free money", patterns)

	if !result.Blocked {
		t.Fatal("expected blocked")
	}
	if len(result.MatchedPatterns) != 3 {
		t.Errorf("got %d matched patterns, want 3: %v", len(result.MatchedPatterns), result.MatchedPatterns)
	}
}

func TestCheckPatterns_MatchTruncation(t *testing.T) {
	// A greedy pattern that can swallow a long tail.
	patterns := []*regexp.Regexp{regexp.MustCompile(`(?i)click here.*`)}
	input := "click here " + strings.Repeat("x", 200)

	result := CheckPatterns(input, patterns)
	if !result.Blocked {
		t.Fatal("expected blocked")
	}
	if got := len([]rune(result.MatchedPatterns[0])); got > 50 {
		t.Errorf("matched substring length = %d, want <= 50", got)
	}
}
