package moderation

import (
	"strings"
	"testing"
)

func TestValidateLinks_Extraction(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name  string
		input string
		urls  int
	}{
		{"single https", "see https://example.com for details", 1},
		{"single http", "see http://example.com", 1},
		{"two urls", "https://example.com and https://go.dev", 2},
		{"bare domain not extracted", "visit example.com today", 0},
		{"www without protocol not extracted", "visit www.example.com", 0},
		{"stops at quote", `click "https://example.com/page" now`, 1},
		{"no urls", "just a normal comment", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateLinks(tt.input, cfg)
			if len(result.URLs) != tt.urls {
				t.Errorf("ValidateLinks(%q) extracted %d URLs, want %d: %v", tt.input, len(result.URLs), tt.urls, result.URLs)
			}
		})
	}
}

func TestValidateLinks_MaxLinks(t *testing.T) {
	cfg := testConfig() // MaxLinks = 2

	atLimit := "https://example.com https://go.dev"
	result := ValidateLinks(atLimit, cfg)
	if !result.Valid {
		t.Errorf("exactly MaxLinks URLs should be valid, got violations: %v", result.Violations)
	}

	overLimit := "https://example.com https://go.dev https://pkg.go.dev"
	result = ValidateLinks(overLimit, cfg)
	if result.Valid {
		t.Fatal("MaxLinks+1 URLs should not be valid")
	}
	if !containsPrefix(result.Violations, "Too many links") {
		t.Errorf("violations = %v, want a 'Too many links' entry", result.Violations)
	}
}

func TestValidateLinks_Shorteners(t *testing.T) {
	cfg := testConfig() // AllowURLShorteners = false

	result := ValidateLinks("check https://bit.ly/abc", cfg)
	if result.Valid {
		t.Fatal("shortener URL should not be valid")
	}
	if !containsPrefix(result.Violations, "URL shorteners are not allowed") {
		t.Errorf("violations = %v, want a shortener entry", result.Violations)
	}

	cfg.AllowURLShorteners = true
	cfg.BlockedDomains = nil // bit.ly is also on the default blocklist
	result = ValidateLinks("check https://bit.ly/abc", cfg)
	if !result.Valid {
		t.Errorf("shortener should be valid when allowed, got violations: %v", result.Violations)
	}
}

func TestValidateLinks_BlockedDomains(t *testing.T) {
	cfg := testConfig()
	cfg.BlockedDomains = []string{"evil.example"}

	result := ValidateLinks("go to https://evil.example/landing", cfg)
	if result.Valid {
		t.Fatal("blocked domain should not be valid")
	}
	if !containsPrefix(result.Violations, "Blocked domain") {
		t.Errorf("violations = %v, want a blocked-domain entry", result.Violations)
	}

	// Subdomains are caught by the substring match.
	result = ValidateLinks("go to https://cdn.evil.example/x", cfg)
	if result.Valid {
		t.Error("blocked domain behind a subdomain should not be valid")
	}

	// Blocklist applies even when shorteners are allowed.
	cfg.AllowURLShorteners = true
	cfg.BlockedDomains = []string{"bit.ly"}
	result = ValidateLinks("https://bit.ly/abc", cfg)
	if result.Valid {
		t.Error("blocklisted shortener should stay rejected when shorteners are allowed")
	}
}

func TestValidateLinks_InvalidURLs(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name  string
		input string
	}{
		{"bad percent escape", "see http://%zz for details"},
		{"missing host", "see http:///path for details"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateLinks(tt.input, cfg)
			if result.Valid {
				t.Fatalf("ValidateLinks(%q).Valid = true, want invalid", tt.input)
			}
			if !containsPrefix(result.Violations, "Invalid URL") {
				t.Errorf("violations = %v, want an 'Invalid URL' entry", result.Violations)
			}
		})
	}
}

func TestValidateLinks_InvalidURLTruncated(t *testing.T) {
	cfg := testConfig()
	long := "http://%zz" + strings.Repeat("a", 200)

	result := ValidateLinks("link: "+long, cfg)
	if result.Valid {
		t.Fatal("expected invalid")
	}
	for _, v := range result.Violations {
		if len([]rune(v)) > len("Invalid URL format: ")+50 {
			t.Errorf("violation not truncated: %q", v)
		}
	}
}

func containsPrefix(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
