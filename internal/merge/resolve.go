package merge

import (
	"strconv"
	"strings"
)

// ResolveTarget finds the task an action points at in the current list.
//
// Exact id match wins. When the id is stale (the file changed since the plan
// was made) the line prefix embedded in the id is tried next, then the
// action's explicit targetTaskLine. Line lookups match the "<line>-" prefix
// of current task ids.
func ResolveTarget(a Action, tasks []TaskRef) (TaskRef, bool) {
	if a.TargetTaskID != "" {
		for _, t := range tasks {
			if t.ID == a.TargetTaskID {
				return t, true
			}
		}
		if line, ok := ParseLineFromTaskID(a.TargetTaskID); ok {
			if t, ok := resolveByLine(line, tasks); ok {
				return t, true
			}
		}
	}

	if a.TargetTaskLine != nil {
		return resolveByLine(*a.TargetTaskLine, tasks)
	}

	return TaskRef{}, false
}

func resolveByLine(line int, tasks []TaskRef) (TaskRef, bool) {
	prefix := strconv.Itoa(line) + "-"
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			return t, true
		}
	}
	return TaskRef{}, false
}
