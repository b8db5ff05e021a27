package merge

import (
	"context"
	"strings"

	"braindump/internal/braindump"
	"braindump/internal/llm"
)

// Client is the slice of the provider surface the planner needs.
type Client interface {
	Generate(ctx context.Context, prompt string, contextTasks []llm.ContextTask) (string, error)
}

// PlanInput carries one planning request.
type PlanInput struct {
	UserInput     string
	Suggestions   []string
	ExistingTasks []TaskRef
}

// GeneratePlan asks the provider how to fold the selected suggestions into
// the existing list. Provider transport errors propagate; an unparseable
// reply degrades to an empty plan because merge planning is best-effort.
func GeneratePlan(ctx context.Context, client Client, in PlanInput) (*Plan, error) {
	prompt := BuildPrompt(in.UserInput, in.Suggestions, in.ExistingTasks)

	raw, err := client.Generate(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}

	v, err := braindump.ExtractJSON(raw)
	if err != nil {
		return &Plan{Actions: []Action{}}, nil
	}

	obj, _ := v.(map[string]any)
	return &Plan{
		Actions: coerceActions(obj["actions"]),
		Notes:   getString(obj, "notes"),
	}, nil
}

func getString(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func getInt(obj map[string]any, key string) *int {
	if n, ok := obj[key].(float64); ok {
		v := int(n)
		return &v
	}
	return nil
}

// coerceActions validates the raw action list: incomplete actions are
// dropped, subtask lists are clamped, and the plan is capped at MaxActions.
func coerceActions(value any) []Action {
	arr, ok := value.([]any)
	if !ok {
		return []Action{}
	}

	out := make([]Action, 0, MaxActions)
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		switch getString(obj, "type") {
		case ActionAddTask:
			text := getString(obj, "text")
			if text == "" {
				continue
			}
			out = append(out, Action{Type: ActionAddTask, Text: text})

		case ActionUpdateTaskText:
			newText := getString(obj, "newText")
			targetID := getString(obj, "targetTaskId")
			targetLine := getInt(obj, "targetTaskLine")
			if newText == "" || (targetID == "" && targetLine == nil) {
				continue
			}
			out = append(out, Action{
				Type:           ActionUpdateTaskText,
				TargetTaskID:   targetID,
				TargetTaskLine: targetLine,
				NewText:        newText,
			})

		case ActionAddSubtasks:
			targetID := getString(obj, "targetTaskId")
			targetLine := getInt(obj, "targetTaskLine")
			subtasks := coerceSubtasks(obj["subtasks"])
			if len(subtasks) == 0 || (targetID == "" && targetLine == nil) {
				continue
			}
			out = append(out, Action{
				Type:           ActionAddSubtasks,
				TargetTaskID:   targetID,
				TargetTaskLine: targetLine,
				Subtasks:       subtasks,
			})

		case ActionNoop:
			out = append(out, Action{Type: ActionNoop, Reason: getString(obj, "reason")})
		}

		if len(out) >= MaxActions {
			break
		}
	}
	return out
}

func coerceSubtasks(value any) []string {
	arr, ok := value.([]any)
	if !ok {
		return nil
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
		if len(out) >= MaxSubtasks {
			break
		}
	}
	return out
}
