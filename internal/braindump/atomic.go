package braindump

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Conservative atomic-input classifier: it only collapses the result when the
// input is clearly a single action, and prefers false negatives over false
// positives.
var (
	conjunctionPattern = regexp.MustCompile(`(?i)\b(and|then|also)\b`)
	actionVerbPattern  = regexp.MustCompile(`(?i)^(read|review|check|open|reply|respond|send|email|call|text|pay|buy|book|schedule|fix|update|submit)\b`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// cjkConjunctions are multi-clause markers checked with plain substring
// matching; RE2 word boundaries don't apply to CJK text.
var cjkConjunctions = []string{"另外", "然后", "並且", "而且"}

// LooksAtomic reports whether text already describes a single concrete action
// that should not be decomposed further.
func LooksAtomic(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if utf8.RuneCountInString(t) > 80 {
		return false
	}
	if conjunctionPattern.MatchString(t) {
		return false
	}
	for _, c := range cjkConjunctions {
		if strings.Contains(t, c) {
			return false
		}
	}
	if strings.ContainsAny(t, "\n;；") {
		return false
	}

	return actionVerbPattern.MatchString(t)
}

// NormalizeAtomicTitle collapses whitespace and upper-cases the first letter
// to produce the single task title for an atomic input.
func NormalizeAtomicTitle(text string) string {
	t := whitespacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
	if t == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(t)
	return string(unicode.ToUpper(r)) + t[size:]
}
