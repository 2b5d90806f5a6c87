package moderation

import (
	"regexp"
	"strings"
	"unicode"
)

// baseProfanity is the general-purpose profanity dictionary. Matching is
// per whitespace-delimited token after punctuation stripping, so embedded
// substrings ("assess", "class") never match.
var baseProfanity = []string{
	"fuck", "fucker", "fucking", "motherfucker",
	"shit", "bullshit", "shitty",
	"bitch", "bitches",
	"asshole", "assholes", "ass",
	"bastard", "bastards",
	"dick", "dickhead",
	"cock", "pussy", "tits",
	"piss", "pissed",
	"wanker", "twat", "prick",
}

// extendedProfanity covers slurs across protected-characteristic
// categories. Explicitly curated, not generated; grouped for reviewability.
var extendedProfanity = []string{
	// Homophobic slurs.
	"fag", "faggot", "faggots", "fags", "dyke", "dykes",

	// Racial slurs and common variants.
	"nigger", "nigga", "niggas", "nig", "coon", "spic", "spics",
	"chink", "chinks", "gook", "gooks", "kike", "kikes", "wetback",
	"beaner", "towelhead", "raghead",

	// Transphobic slurs.
	"tranny", "trannies", "shemale",

	// Ableist slurs.
	"retard", "retarded", "retards", "tard", "spaz", "spastic",

	// Misogynistic slurs.
	"cunt", "cunts", "whore", "whores", "slut", "sluts",
}

// contextualPatterns catch derogatory usage even when no individual token
// is in the dictionary (slur-as-adjective, xenophobic phrasing, ethnic
// generalizations).
var contextualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(that'?s|this is|so|really|pretty|very)\s+(gay|homo)\b`),
	regexp.MustCompile(`(?i)\b(no homo|full homo)\b`),
	regexp.MustCompile(`(?i)\b(go back to|deport|send back)\b.*?(africa|mexico|china|middle east|your country)`),
	regexp.MustCompile(`(?i)\b(all|every|most)\s+(blacks|whites|asians|mexicans|muslims|jews|arabs)\s+(are|do|have)`),
	regexp.MustCompile(`(?i)\b(fucking|damn|stupid)\s+(gay|homo|trans|black|white|asian|mexican|muslim|jew)\b`),
}

// obfuscationPatterns catch symbol-substituted spellings of common
// profanity and slurs (e.g. "f***ck", "sh!t") that token lookup misses.
var obfuscationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)f[*@#$%^&!]+ck`),
	regexp.MustCompile(`(?i)sh[*@#$%^&!]+t`),
	regexp.MustCompile(`(?i)b[*@#$%^&!]+tch`),
	regexp.MustCompile(`(?i)d[*@#$%^&!]+mn`),
	regexp.MustCompile(`(?i)n[*@#$%^&!]+gg[*@#$%^&!]*[ae]r?`),
	regexp.MustCompile(`(?i)f[*@#$%^&!]+gg[*@#$%^&!]*[o0]t`),
}

// leetReplacer maps common single-character substitutions back to letters
// before dictionary lookup, so "b1tch" and "$lut" still hit the word list.
var leetReplacer = strings.NewReplacer(
	"@", "a",
	"$", "s",
	"!", "i",
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
)

// ProfanityFilter holds the compiled word set. Construct once at startup
// and share across goroutines; Check performs no writes.
type ProfanityFilter struct {
	words map[string]struct{}
}

// NewProfanityFilter builds a filter over the base and extended word lists.
func NewProfanityFilter() *ProfanityFilter {
	return NewProfanityFilterWithWords(append(append([]string{}, baseProfanity...), extendedProfanity...))
}

// NewProfanityFilterWithWords builds a filter over a custom word list.
// Empty and whitespace-only entries are dropped. Used by tests to isolate
// the matching machinery from the curated lists.
func NewProfanityFilterWithWords(words []string) *ProfanityFilter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &ProfanityFilter{words: set}
}

// Check screens content for profanity. Three layers are additive into one
// de-duplicated violation list: dictionary lookup per token (including a
// leet-normalized retry), contextual phrase patterns, and obfuscated
// spellings. When cfg.AutoSanitize is set and violations exist, a cleaned
// copy of the text is produced; callers decide whether to use it.
func (f *ProfanityFilter) Check(content string, cfg Config) ProfanityResult {
	if !cfg.ProfanityEnabled {
		return ProfanityResult{Clean: true}
	}

	var violations []string

	for _, token := range strings.Fields(content) {
		if f.isProfane(token) {
			violations = append(violations, token)
		}
	}

	for _, p := range contextualPatterns {
		if m := p.FindString(content); m != "" {
			violations = append(violations, m)
		}
	}

	for _, p := range obfuscationPatterns {
		violations = append(violations, p.FindAllString(content, -1)...)
	}

	violations = dedupe(violations)

	var sanitized string
	if cfg.AutoSanitize && len(violations) > 0 {
		sanitized = f.sanitize(content)
	}

	return ProfanityResult{
		Clean:      len(violations) == 0,
		Violations: violations,
		Sanitized:  sanitized,
	}
}

// isProfane reports whether a single whitespace-delimited token matches the
// word set, either directly or after leet normalization.
func (f *ProfanityFilter) isProfane(token string) bool {
	if norm := normalizeToken(token); norm != "" {
		if _, ok := f.words[norm]; ok {
			return true
		}
	}
	// Leet normalization runs before edge stripping so substituted symbols
	// ("$lut") survive; anything left over at the edges is punctuation.
	leet := strings.TrimFunc(leetReplacer.Replace(strings.ToLower(token)), isTokenEdge)
	if leet == "" {
		return false
	}
	_, ok := f.words[leet]
	return ok
}

// sanitize replaces every dictionary-matched token with asterisks while
// preserving whitespace and punctuation.
func (f *ProfanityFilter) sanitize(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		token := content[start:end]
		if f.isProfane(token) {
			b.WriteString(strings.Repeat("*", len([]rune(token))))
		} else {
			b.WriteString(token)
		}
		start = -1
	}

	for i, r := range content {
		if unicode.IsSpace(r) {
			flush(i)
			b.WriteRune(r)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(content))

	return b.String()
}

// normalizeToken lowercases a token and strips punctuation from its edges
// so "Badword!" and "badword" compare equal.
func normalizeToken(token string) string {
	return strings.ToLower(strings.TrimFunc(token, isTokenEdge))
}

func isTokenEdge(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// dedupe removes duplicate entries while preserving first-seen order.
func dedupe(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
