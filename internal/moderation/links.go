package moderation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// urlRE extracts http(s) URLs, matching greedily up to whitespace or a
// delimiter character. Bare domains ("example.com") are deliberately not
// extracted; without a protocol they are ordinary prose.
var urlRE = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// shortenerDomains are known URL shortener hosts, rejected unless
// Config.AllowURLShorteners is set. Shorteners hide the destination from
// both users and the domain blocklist.
var shortenerDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"ow.ly",
	"short.link",
}

// extractURLs returns every http(s) URL found in content, in order.
func extractURLs(content string) []string {
	return urlRE.FindAllString(content, -1)
}

// ValidateLinks extracts all URLs from content and validates each one:
// well-formedness (absolute http/https with a host), shortener domains, and
// the configured domain blocklist (substring match against the hostname).
// Independently of per-URL validity, exceeding Config.MaxLinks records a
// count violation.
func ValidateLinks(content string, cfg Config) LinkResult {
	urls := extractURLs(content)
	var violations []string

	if len(urls) > cfg.MaxLinks {
		violations = append(violations, fmt.Sprintf("Too many links (%d found, max %d)", len(urls), cfg.MaxLinks))
	}

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			violations = append(violations, "Invalid URL format: "+truncate(raw, maxMatchedLen))
			continue
		}

		hostname := strings.ToLower(u.Hostname())

		if !cfg.AllowURLShorteners && containsAny(hostname, shortenerDomains) {
			violations = append(violations, "URL shorteners are not allowed: "+hostname)
		}

		if containsAny(hostname, cfg.BlockedDomains) {
			violations = append(violations, "Blocked domain: "+hostname)
		}
	}

	return LinkResult{
		Valid:      len(violations) == 0,
		URLs:       urls,
		Violations: violations,
	}
}

func containsAny(hostname string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(hostname, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
