package ops

import (
	"context"
	"strings"

	"braindump/internal/breakdown"
	"braindump/internal/config"
	"braindump/internal/errors"
)

// BreakdownInput contains parameters for the Breakdown operation.
type BreakdownInput struct {
	TaskText string

	// PromptOverride replaces the configured template for this call.
	PromptOverride string
}

// BreakdownOutput contains the result of the Breakdown operation.
type BreakdownOutput struct {
	RawText  string   `json:"rawText"`
	Subtasks []string `json:"subtasks"`
}

// Breakdown splits one task into concrete subtasks using the configured
// prompt template.
func Breakdown(ctx context.Context, env *Env, input BreakdownInput) (*BreakdownOutput, error) {
	if strings.TrimSpace(input.TaskText) == "" {
		return nil, errors.NewInvalidRequest("task text is required")
	}
	if env.Config != nil && !env.Config.TaskBreakdownEnabled {
		return nil, errors.NewInvalidRequest("task breakdown is disabled in settings")
	}

	template := input.PromptOverride
	if template == "" && env.Config != nil {
		template = env.Config.TaskBreakdownPrompt
	}
	if template == "" {
		template = config.DefaultTaskBreakdownPrompt
	}

	contextTasks, err := env.contextTasks(false)
	if err != nil {
		return nil, err
	}

	res, err := breakdown.Generate(ctx, env.client(), template, strings.TrimSpace(input.TaskText), contextTasks)
	if err != nil {
		return nil, err
	}

	return &BreakdownOutput{RawText: res.RawText, Subtasks: res.Subtasks}, nil
}
