// Package breakdown turns one task into a list of concrete subtasks using a
// user-editable prompt template.
package breakdown

import (
	"context"
	"regexp"
	"strings"

	"braindump/internal/llm"
)

// Line decorations stripped from model output: bullets, numbering, and
// markdown checkboxes.
var (
	bulletPattern   = regexp.MustCompile(`^[-*]\s+`)
	numberPattern   = regexp.MustCompile(`^\d+\.?\s+`)
	checkboxPattern = regexp.MustCompile(`^\[\s?[xX]?\s?\]\s+`)
)

// fallbackSubtasks keeps the flow usable when the provider returns empty or
// unusable text.
var fallbackSubtasks = []string{
	"Clarify goal and success criteria",
	"List constraints and dependencies",
	"Break into milestones",
	"Define next 1–2 concrete actions",
}

// Client is the slice of the provider surface the breakdown needs.
type Client interface {
	Generate(ctx context.Context, prompt string, contextTasks []llm.ContextTask) (string, error)
}

// Result is the outcome of one breakdown run. RawText is kept so the caller
// can show exactly what the model said alongside the parsed lines.
type Result struct {
	RawText  string   `json:"rawText"`
	Subtasks []string `json:"subtasks"`
}

// BuildPrompt substitutes the task into the template. Templates without a
// {{task}} placeholder get the task appended as a trailing block instead.
func BuildPrompt(template, taskText string) string {
	if strings.Contains(template, "{{task}}") {
		return strings.ReplaceAll(template, "{{task}}", taskText)
	}
	return strings.TrimSpace(template + "\n\nTask: " + taskText)
}

// ParseLines extracts subtask lines from free-form model output, stripping
// list decorations and dropping blanks.
func ParseLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = bulletPattern.ReplaceAllString(line, "")
		line = numberPattern.ReplaceAllString(line, "")
		line = checkboxPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Generate runs the breakdown: render the template, call the provider, parse
// the reply. An empty parse falls back to a generic plan skeleton so the UI
// always has something to offer.
func Generate(ctx context.Context, client Client, template, taskText string, contextTasks []llm.ContextTask) (*Result, error) {
	prompt := BuildPrompt(template, taskText)

	raw, err := client.Generate(ctx, prompt, contextTasks)
	if err != nil {
		return nil, err
	}

	subtasks := ParseLines(raw)
	if len(subtasks) == 0 {
		subtasks = append([]string(nil), fallbackSubtasks...)
	}

	return &Result{RawText: raw, Subtasks: subtasks}, nil
}
