package braindump

import (
	"strings"

	"braindump/internal/scene"
)

// PromptInput carries everything the prompt builder needs. Pure string
// construction; the caller short-circuits empty input before building.
type PromptInput struct {
	InputText    string
	SceneID      scene.ID
	KBText       string
	SystemPrompt string
}

// BuildPrompt renders the analysis prompt: fixed preamble, scene line,
// optional system/knowledge-base blocks, duplicate-avoidance reminder, the
// strict-JSON output contract, quality-bar rules, the atomic-input rule, and
// finally the trimmed raw input.
func BuildPrompt(in PromptInput) string {
	kb := strings.TrimSpace(in.KBText)
	sys := strings.TrimSpace(in.SystemPrompt)

	lines := []string{
		"You are Brain Dump Analyzer.",
		"Goal: Turn the user's messy input into actionable tasks and a short plan.",
		"Scene: " + string(in.SceneID),
		"Scene instructions: " + scene.Instruction(in.SceneID),
	}

	if sys != "" {
		lines = append(lines, "System notes (user provided):\n"+sys)
	}
	if kb != "" {
		lines = append(lines, "Knowledge base notes (user provided):\n"+kb)
	}

	lines = append(lines,
		"You are also given a JSON list of existing tasks in the context above. Avoid suggesting duplicates.",
		"Return STRICT JSON ONLY. No prose. No markdown fences.",
		"Schema:",
		"{",
		`  "sceneId": "brain-dump" | "project-brainstorm" | "dev-todo" | "daily-reminders",`,
		`  "summaryBullets": string[]  // 1-5 bullets, short, no trailing punctuation preference ok`,
		`  "nextActions": string[]     // 0-3 concrete do-able steps, verb-led`,
		`  "clarifyingQuestions": { "question": string, "choices"?: string[] }[] // 0-2`,
		`  "tasks": { "title": string, "tags"?: string[], "dueDate"?: "YYYY-MM-DD" }[]`,
		`  "sourceText": string`,
		"}",
		"Quality bar for tasks:",
		"- Each task is meaningful and do-able (not vague).",
		"- Start titles with a verb.",
		"- Keep tasks small enough to complete without needing another task to define it.",
		"- Only set dueDate if the user explicitly provided a YYYY-MM-DD date.",
		"Atomic input rule:",
		`- If the user input is already a single clear action (e.g., "Read the unread tax messages"), do NOT expand it.`,
		"- In that case return exactly 1 task and nextActions should be empty (or at most 1 line that repeats the same action).",
		"User input:",
		strings.TrimSpace(in.InputText),
	)

	return strings.Join(lines, "\n")
}
