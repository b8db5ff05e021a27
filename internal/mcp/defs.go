package mcp

import "github.com/mark3labs/mcp-go/mcp"

var analyzeToolDef = mcp.NewTool("dump_analyze",
	mcp.WithDescription("Analyze a brain-dump transcript into summary bullets, next actions, clarifying questions, and task suggestions. Falls back to an offline heuristic when the provider is unreachable. Persists the result to the note and the run archive."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Transcript or free-form text to analyze"),
	),
	mcp.WithString("scene_id",
		mcp.Description("Capture scene: brain-dump, project-brainstorm, dev-todo, or daily-reminders. Unknown values fall back to brain-dump."),
	),
	mcp.WithString("kb_text",
		mcp.Description("Optional knowledge-base text appended to the prompt context"),
	),
	mcp.WithString("system_prompt",
		mcp.Description("Optional system prompt override"),
	),
	mcp.WithBoolean("include_completed",
		mcp.Description("Include completed tasks in the duplicate-avoidance context (defaults to the configured setting)"),
	),
)

var previewToolDef = mcp.NewTool("dump_preview",
	mcp.WithDescription("Run the offline heuristic analysis without contacting a provider or touching the note. The run is still archived."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Transcript or free-form text to analyze"),
	),
	mcp.WithString("scene_id",
		mcp.Description("Capture scene: brain-dump, project-brainstorm, dev-todo, or daily-reminders"),
	),
)

var mergePlanToolDef = mcp.NewTool("merge_plan",
	mcp.WithDescription("Plan how new input and task suggestions merge into the existing task list. Returns a list of actions (add_task, update_task_text, add_subtasks, noop); an unparseable provider reply yields an empty plan."),
	mcp.WithString("user_input",
		mcp.Description("Raw user input the suggestions came from"),
	),
	mcp.WithArray("suggestions",
		mcp.Description("Suggested task titles to reconcile with the list"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var mergeApplyToolDef = mcp.NewTool("merge_apply",
	mcp.WithDescription("Apply a merge plan to the task document. Each action's target is re-resolved against the live document; unresolvable targets are reported, not guessed."),
	mcp.WithArray("actions",
		mcp.Required(),
		mcp.Description("Plan actions to apply, in order"),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":           map[string]any{"type": "string", "enum": []string{"add_task", "update_task_text", "add_subtasks", "noop"}},
				"text":           map[string]any{"type": "string"},
				"targetTaskId":   map[string]any{"type": "string"},
				"targetTaskLine": map[string]any{"type": "number"},
				"newText":        map[string]any{"type": "string"},
				"subtasks":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"reason":         map[string]any{"type": "string"},
			},
			"required": []string{"type"},
		}),
	),
)

var breakdownToolDef = mcp.NewTool("task_breakdown",
	mcp.WithDescription("Break a task into 3-8 concrete subtasks using the configured template. Returns fallback subtasks when the provider reply is unusable."),
	mcp.WithString("task_text",
		mcp.Required(),
		mcp.Description("Task text to break down"),
	),
	mcp.WithString("prompt",
		mcp.Description("Optional template override; {{task}} is replaced with the task text"),
	),
)

var captureAppendToolDef = mcp.NewTool("capture_append",
	mcp.WithDescription("Append transcript lines to the note's voice capture region, each stamped with the current time. Blank lines are dropped."),
	mcp.WithArray("lines",
		mcp.Required(),
		mcp.Description("Transcript lines to append"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var captureStartSessionToolDef = mcp.NewTool("capture_start_session",
	mcp.WithDescription("Start a new voice capture session by writing its timestamp marker to the capture region."),
)

var captureLatestToolDef = mcp.NewTool("capture_latest",
	mcp.WithDescription("Return the lines of the most recent non-empty capture session."),
)

var captureSummarizeToolDef = mcp.NewTool("capture_summarize",
	mcp.WithDescription("Condense the latest capture session into summary bullets and write them to the note's summary region. Runs entirely offline."),
)

var historyReadToolDef = mcp.NewTool("history_read",
	mcp.WithDescription("Read the persisted brain-dump history from the note. Returns null when no history exists or it is malformed."),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Remove the brain-dump history region from the note."),
)

var runsListToolDef = mcp.NewTool("runs_list",
	mcp.WithDescription("List archived analysis runs, newest first."),
	mcp.WithString("scene_id",
		mcp.Description("Filter by capture scene"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of runs to skip"),
	),
)

var runsGetToolDef = mcp.NewTool("runs_get",
	mcp.WithDescription("Fetch one archived run including its full analysis result."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Run id"),
	),
)
