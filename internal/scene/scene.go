package scene

import (
	"encoding/json"
	"strings"
)

// ID identifies a capture scene. The scene changes prompt phrasing, default
// tags, and the mind-clearing hint prefix; it never changes the result shape.
type ID string

const (
	BrainDump         ID = "brain-dump"
	ProjectBrainstorm ID = "project-brainstorm"
	DevTodo           ID = "dev-todo"
	DailyReminders    ID = "daily-reminders"
)

// All lists the known scenes in display order.
var All = []ID{BrainDump, ProjectBrainstorm, DevTodo, DailyReminders}

// Valid reports whether id is one of the known scenes.
func Valid(id ID) bool {
	switch id {
	case BrainDump, ProjectBrainstorm, DevTodo, DailyReminders:
		return true
	}
	return false
}

// Normalize maps unknown or empty scene ids to BrainDump.
func Normalize(id ID) ID {
	if Valid(id) {
		return id
	}
	return BrainDump
}

// Instruction returns the scene-specific prompt instruction line. Unknown
// scenes get the general brain-dump phrasing.
func Instruction(id ID) string {
	switch id {
	case DevTodo:
		return "Prefer short, actionable engineering tasks. Use tags like dev when appropriate."
	case ProjectBrainstorm:
		return "Prefer next actions and decisions. Keep tasks lightweight and concrete."
	case DailyReminders:
		return "Prefer time-bound reminders and routine actions. Only include a due date when explicitly stated as YYYY-MM-DD."
	default:
		return "General brain dump. Extract concrete next steps and avoid duplicates."
	}
}

// DefaultTags returns the tags attached to heuristic task suggestions for the
// scene. The general scene attaches none.
func DefaultTags(id ID) []string {
	switch id {
	case DevTodo:
		return []string{"dev"}
	case ProjectBrainstorm:
		return []string{"project"}
	case DailyReminders:
		return []string{"reminder"}
	default:
		return nil
	}
}

// HintPrefix returns the lead-in for mind-clearing hint strings.
func HintPrefix(id ID) string {
	switch id {
	case DevTodo:
		return "To unblock yourself:"
	case ProjectBrainstorm:
		return "To clarify the direction:"
	case DailyReminders:
		return "To reduce mental load:"
	default:
		return "To clear your mind:"
	}
}

// Label returns the human-readable label for a scene, honoring any per-user
// override.
func Label(id ID, overrides map[ID]string) string {
	if v, ok := overrides[id]; ok && v != "" {
		return v
	}
	switch id {
	case DevTodo:
		return "Dev Todo"
	case ProjectBrainstorm:
		return "Project Brainstorm"
	case DailyReminders:
		return "Daily Reminders"
	default:
		return "Brain Dump"
	}
}

// ParseLabelOverrides parses the user-supplied scene label JSON from config.
// Unknown keys and non-string values are dropped; invalid JSON yields an empty
// map rather than an error, matching the tolerant config policy.
func ParseLabelOverrides(raw string) map[ID]string {
	out := make(map[ID]string)
	if strings.TrimSpace(raw) == "" {
		return out
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return out
	}

	for _, id := range All {
		if v, ok := parsed[string(id)].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				out[id] = trimmed
			}
		}
	}
	return out
}
