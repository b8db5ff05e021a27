package notes

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var leadingBracketPattern = regexp.MustCompile(`^\[[^\]]+\]\s*`)

const summaryTailSize = 8

// sentenceEnders terminate a sentence when followed by whitespace.
const sentenceEnders = ".!?。！？"

// SimpleSummarize is the offline fallback summary: strip session markers,
// de-dupe, keep the last few lines, and cut each down to its first sentence.
func SimpleSummarize(lines []string) []string {
	var cleaned []string
	for _, l := range lines {
		l = strings.TrimSpace(leadingBracketPattern.ReplaceAllString(l, ""))
		if l != "" {
			cleaned = append(cleaned, l)
		}
	}

	var uniq []string
	seen := map[string]bool{}
	for _, l := range cleaned {
		if !seen[l] {
			seen[l] = true
			uniq = append(uniq, l)
		}
	}

	if len(uniq) > summaryTailSize {
		uniq = uniq[len(uniq)-summaryTailSize:]
	}

	out := make([]string, 0, len(uniq))
	for _, l := range uniq {
		s := firstSentence(l)
		if s == "" {
			s = l
		}
		if utf8.RuneCountInString(s) > 120 {
			s = string([]rune(s)[:117]) + "…"
		}
		out = append(out, s)
	}
	return out
}

// firstSentence cuts s at the first terminal punctuation followed by
// whitespace.
func firstSentence(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if strings.ContainsRune(sentenceEnders, r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return string(runes[:i+1])
		}
	}
	return s
}
