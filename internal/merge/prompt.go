package merge

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var taskIDLinePattern = regexp.MustCompile(`^(\d+)-`)

// ParseLineFromTaskID extracts the line-number prefix of a task id of the
// form "<line>-<fragment>".
func ParseLineFromTaskID(id string) (int, bool) {
	m := taskIDLinePattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

type promptTask struct {
	ID        string `json:"id"`
	Line      int    `json:"line"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// BuildPrompt renders the merge-planning prompt. Existing tasks are embedded
// as JSON with their line numbers so the model can target them; tasks with an
// unparseable id get line -1.
func BuildPrompt(userInput string, suggestions []string, existingTasks []TaskRef) string {
	if len(existingTasks) > MaxExistingTasks {
		existingTasks = existingTasks[:MaxExistingTasks]
	}

	forPrompt := make([]promptTask, len(existingTasks))
	for i, t := range existingTasks {
		line := -1
		if n, ok := ParseLineFromTaskID(t.ID); ok {
			line = n
		}
		forPrompt[i] = promptTask{ID: t.ID, Line: line, Text: t.Text, Completed: t.Completed}
	}

	tasksJSON, _ := json.Marshal(forPrompt)
	suggestionsJSON, _ := json.Marshal(suggestions)

	lines := []string{
		"You are a task organizer. Decide how to apply suggested tasks to an existing markdown todo list.",
		"You must choose actions to avoid duplicates:",
		"- update an existing task text when the suggestion is basically the same thing but more specific",
		"- add the suggestion as a subtask when it belongs under an existing parent task",
		"- add a new task when there is no good match",
		"- noop when everything is already covered",
		"Return STRICT JSON ONLY. No prose.",
		"Schema:",
		"{",
		`  "actions": [`,
		`    { "type": "update_task_text", "targetTaskLine": number, "newText": string },`,
		`    { "type": "add_subtasks", "targetTaskLine": number, "subtasks": string[] },`,
		`    { "type": "add_task", "text": string },`,
		`    { "type": "noop", "reason"?: string }`,
		"  ]",
		"}",
		"Rules:",
		"- Prefer updating an existing task over adding a new duplicate.",
		"- If the user input is a single atomic action, prefer a single update_task_text or add_task. Do NOT create planning steps.",
		"- For update_task_text, keep it as one clear action, verb-led.",
		"- For add_subtasks, each subtask must be a concrete action line.",
		"- Do not reference tasks not in the existing list.",
		"Existing tasks (open + done):",
		string(tasksJSON),
		"User input:",
		strings.TrimSpace(userInput),
		"Selected suggestions to apply:",
		string(suggestionsJSON),
	}

	return strings.Join(lines, "\n")
}
