package merge

// Action types a plan may contain. Unknown types are dropped during
// validation rather than surfaced.
const (
	ActionAddTask        = "add_task"
	ActionUpdateTaskText = "update_task_text"
	ActionAddSubtasks    = "add_subtasks"
	ActionNoop           = "noop"
)

const (
	MaxActions       = 8
	MaxSubtasks      = 12
	MaxExistingTasks = 60
)

// Action is one step of a merge plan. Fields are populated per Type:
// add_task uses Text; update_task_text uses NewText plus a target;
// add_subtasks uses Subtasks plus a target; noop optionally carries Reason.
// A target is either TargetTaskID or TargetTaskLine, at least one of which
// must be set for the targeted types.
type Action struct {
	Type string `json:"type"`

	Text string `json:"text,omitempty"`

	TargetTaskID   string `json:"targetTaskId,omitempty"`
	TargetTaskLine *int   `json:"targetTaskLine,omitempty"`
	NewText        string `json:"newText,omitempty"`

	Subtasks []string `json:"subtasks,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// Plan is the validated outcome of one merge planning run.
type Plan struct {
	Actions []Action `json:"actions"`
	Notes   string   `json:"notes,omitempty"`
}

// TaskRef identifies one existing task for planning and resolution. The ID
// carries the line prefix used for stale-id recovery.
type TaskRef struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
