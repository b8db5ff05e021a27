package braindump

import (
	"regexp"
	"strings"

	"braindump/internal/scene"
)

// dueDatePattern accepts strict YYYY-MM-DD dates in years 2000-2099 with
// valid month/day ranges. Anything else is dropped, never coerced.
var dueDatePattern = regexp.MustCompile(`^(20\d{2})-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// tagHashPattern strips leading hash marks off model-supplied tags.
var tagHashPattern = regexp.MustCompile(`^#+`)

// ParseReply validates a raw model reply into a Result.
//
// Individual malformed list elements are dropped; a total extraction failure
// is reported inline via the summary bullets rather than returned as an
// error, so the caller always gets a renderable shape.
func ParseReply(raw string, inputText string, sceneID scene.ID) *Result {
	trimmed := strings.TrimSpace(inputText)

	v, err := ExtractJSON(raw)
	if err != nil {
		hint := truncateRunes(strings.TrimSpace(raw), 200)
		if hint == "" {
			hint = "Unknown error."
		}
		return &Result{
			SceneID:             sceneID,
			SummaryBullets:      []string{"AI analysis failed: " + hint},
			NextActions:         []string{},
			ClarifyingQuestions: []ClarifyingQuestion{},
			Tasks:               []TaskSuggestion{},
			Transcript:          trimmed,
		}
	}

	ids := newIDSource()
	obj := asObject(v)

	outScene := sceneID
	if raw := scene.ID(getString(obj, "sceneId")); scene.Valid(raw) {
		outScene = raw
	}

	summaryBullets := coerceStringArray(obj["summaryBullets"], MaxSummaryBullets)
	nextActions := coerceStringArray(obj["nextActions"], MaxNextActions)
	clarifyingQuestions := coerceQuestions(obj["clarifyingQuestions"])
	tasks := coerceTasks(obj["tasks"], ids)

	transcript := getString(obj, "sourceText")
	if transcript == "" {
		transcript = trimmed
	}

	// Atomic inputs don't get meta steps: collapse the plan to one task.
	if LooksAtomic(trimmed) {
		nextActions = []string{}
		clarifyingQuestions = []ClarifyingQuestion{}
		if len(tasks) == 0 {
			tasks = []TaskSuggestion{{ID: ids.next(), Title: NormalizeAtomicTitle(trimmed)}}
		} else {
			tasks = tasks[:1]
		}
	}

	if len(summaryBullets) == 0 {
		summaryBullets = []string{truncateRunes(trimmed, 160)}
	}

	return &Result{
		SceneID:             outScene,
		SummaryBullets:      summaryBullets,
		NextActions:         nextActions,
		ClarifyingQuestions: clarifyingQuestions,
		Tasks:               tasks,
		Transcript:          transcript,
	}
}

// getString returns a trimmed string field, or "" for absent/non-string.
func getString(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// getNumber returns a numeric field, or ok=false for absent/non-numeric.
func getNumber(obj map[string]any, key string) (float64, bool) {
	if n, ok := obj[key].(float64); ok {
		return n, true
	}
	return 0, false
}

// coerceStringArray keeps trimmed non-empty strings, up to max.
func coerceStringArray(value any, max int) []string {
	arr, ok := value.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(arr))
	for _, v := range arr {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) >= max {
			break
		}
	}
	return out
}

// coerceQuestions keeps elements with a non-empty question, clamping choices.
func coerceQuestions(value any) []ClarifyingQuestion {
	arr, ok := value.([]any)
	if !ok {
		return []ClarifyingQuestion{}
	}

	out := make([]ClarifyingQuestion, 0, MaxClarifyingQuestions)
	for _, v := range arr {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		question := getString(obj, "question")
		if question == "" {
			continue
		}

		var choices []string
		if rawChoices, ok := obj["choices"].([]any); ok {
			choices = coerceStringArray(rawChoices, MaxQuestionChoices)
			if len(choices) == 0 {
				choices = nil
			}
		}

		out = append(out, ClarifyingQuestion{Question: question, Choices: choices})
		if len(out) >= MaxClarifyingQuestions {
			break
		}
	}
	return out
}

// sanitizeTag lowercases, strips leading hashes, and hyphenates whitespace.
func sanitizeTag(t string) string {
	t = tagHashPattern.ReplaceAllString(t, "")
	t = strings.TrimSpace(t)
	t = whitespacePattern.ReplaceAllString(t, "-")
	return strings.ToLower(t)
}

// coerceTasks keeps elements with a non-empty title, validating every
// optional field defensively.
func coerceTasks(value any, ids *idSource) []TaskSuggestion {
	arr, ok := value.([]any)
	if !ok {
		return []TaskSuggestion{}
	}

	out := make([]TaskSuggestion, 0, MaxTasks)
	for _, v := range arr {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		title := getString(obj, "title")
		if title == "" {
			continue
		}

		var tags []string
		if rawTags, ok := obj["tags"].([]any); ok {
			for _, rt := range rawTags {
				s, ok := rt.(string)
				if !ok {
					continue
				}
				if tag := sanitizeTag(s); tag != "" {
					tags = append(tags, tag)
				}
				if len(tags) >= MaxTags {
					break
				}
			}
		}

		dueDate := getString(obj, "dueDate")
		if !dueDatePattern.MatchString(dueDate) {
			dueDate = ""
		}

		var confidence *float64
		if n, ok := getNumber(obj, "confidence"); ok {
			c := clamp01(n)
			confidence = &c
		}

		out = append(out, TaskSuggestion{
			ID:         ids.next(),
			Title:      title,
			Tags:       tags,
			DueDate:    dueDate,
			Confidence: confidence,
			Rationale:  getString(obj, "rationale"),
		})
		if len(out) >= MaxTasks {
			break
		}
	}
	return out
}

func clamp01(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
