package braindump

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"braindump/internal/scene"
)

var (
	clauseSplitPattern = regexp.MustCompile(`(?i)\s*(?:and|then|also|另外|然后)\s+`)
	taskVerbPattern    = regexp.MustCompile(`(?i)\b(need to|remember to|follow up|send|email|call|schedule|book|buy|fix|review|ship|deploy|submit|renew|plan|write|update|check|pay)\b`)
	bulletLeadPattern  = regexp.MustCompile(`^[-•]\s*`)
	pronounPattern     = regexp.MustCompile(`(?i)\b(i|we)\b\s*`)
	leadingToPattern   = regexp.MustCompile(`(?i)^to\s+`)
	inlineDatePattern  = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	relativeDayPattern = regexp.MustCompile(`(?i)next week|tomorrow|later`)
)

// sentenceEnders terminate a sentence when followed by whitespace.
const sentenceEnders = ".!?。！？"

// MockResult produces a deterministic offline analysis from the transcript
// alone. It backs the UI preview path and the fallback when no provider is
// reachable, so the output must always be well-formed.
func MockResult(transcript string, sceneID scene.ID) *Result {
	t := normalizeSpace(transcript)
	sentences := splitSentences(t)

	summaryBullets := make([]string, 0, 3)
	for _, s := range sentences {
		if len(summaryBullets) >= 3 {
			break
		}
		if utf8.RuneCountInString(s) > 140 {
			s = truncateRunes(s, 137) + "…"
		}
		summaryBullets = append(summaryBullets, s)
	}

	tasks := inferTasks(sentences, sceneID)

	hints := make([]string, 0, 2)
	if len(tasks) > 0 {
		hints = append(hints, scene.HintPrefix(sceneID)+" pick the next 1 task to do now.")
	}
	if len(sentences) > 1 {
		hints = append(hints, "Capture any missing names/dates while it’s fresh.")
	}

	clarifyingQuestions := []ClarifyingQuestion{}
	for _, task := range tasks {
		if relativeDayPattern.MatchString(task.Title) {
			clarifyingQuestions = append(clarifyingQuestions, ClarifyingQuestion{
				Question: "When should this happen?",
				Choices:  []string{"Today", "Tomorrow", "This week", "Next week"},
			})
			break
		}
	}

	if len(summaryBullets) == 0 {
		summaryBullets = []string{"(No speech captured)"}
	}
	if len(hints) == 0 {
		hints = []string{"Say one more sentence: “The next concrete step is …”"}
	}

	return &Result{
		SceneID:             sceneID,
		SummaryBullets:      summaryBullets,
		NextActions:         []string{},
		MindClearingHints:   hints,
		ClarifyingQuestions: clarifyingQuestions,
		Tasks:               tasks,
		Transcript:          t,
	}
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// splitSentences breaks normalized text after terminal punctuation followed by
// whitespace. Done as a rune walk since RE2 has no lookbehind.
func splitSentences(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		b.WriteRune(r)
		if strings.ContainsRune(sentenceEnders, r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if part := strings.TrimSpace(b.String()); part != "" {
				out = append(out, part)
			}
			b.Reset()
		}
	}
	if part := strings.TrimSpace(b.String()); part != "" {
		out = append(out, part)
	}
	return out
}

// inferTasks splits sentences on conjunctions, keeps clauses that look like
// actions (or are short enough to be one), dedupes case-insensitively, and
// caps the suggestion list at eight.
func inferTasks(sentences []string, sceneID scene.ID) []TaskSuggestion {
	defaultTags := scene.DefaultTags(sceneID)
	ids := newIDSource()

	var taskish []string
	for _, s := range sentences {
		for _, clause := range clauseSplitPattern.Split(s, -1) {
			clause = strings.TrimSpace(clause)
			if clause == "" {
				continue
			}
			if taskVerbPattern.MatchString(clause) || utf8.RuneCountInString(clause) <= 80 {
				taskish = append(taskish, clause)
			}
		}
	}

	var uniq []string
	seen := map[string]bool{}
	for _, s := range taskish {
		cleaned := strings.TrimSpace(bulletLeadPattern.ReplaceAllString(s, ""))
		key := strings.ToLower(cleaned)
		if cleaned == "" || seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, cleaned)
		if len(uniq) >= 8 {
			break
		}
	}

	out := make([]TaskSuggestion, 0, len(uniq))
	for _, raw := range uniq {
		title := strings.TrimSpace(leadingToPattern.ReplaceAllString(
			pronounPattern.ReplaceAllString(upperFirst(raw), ""), ""))
		if title == "" {
			title = raw
		}

		confidence := 0.55
		out = append(out, TaskSuggestion{
			ID:         ids.next(),
			Title:      title,
			Tags:       defaultTags,
			DueDate:    inlineDatePattern.FindString(raw),
			Confidence: &confidence,
			Rationale:  "Mock extraction (UI preview)",
		})
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
