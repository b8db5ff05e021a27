package ops

import (
	"context"
	"strings"

	"braindump/internal/errors"
	"braindump/internal/merge"
)

// PlanMergeInput contains parameters for the PlanMerge operation.
type PlanMergeInput struct {
	UserInput   string
	Suggestions []string
}

// PlanMergeOutput contains the result of the PlanMerge operation.
type PlanMergeOutput struct {
	Plan *merge.Plan `json:"plan"`
}

// PlanMerge asks the provider how to fold the selected suggestions into the
// current todo list without creating duplicates.
func PlanMerge(ctx context.Context, env *Env, input PlanMergeInput) (*PlanMergeOutput, error) {
	if len(input.Suggestions) == 0 && strings.TrimSpace(input.UserInput) == "" {
		return nil, errors.NewInvalidRequest("user input or suggestions are required")
	}

	tasks, err := env.Doc.Tasks()
	if err != nil {
		return nil, err
	}

	existing := make([]merge.TaskRef, len(tasks))
	for i, t := range tasks {
		existing[i] = merge.TaskRef{ID: t.ID, Text: t.Text, Completed: t.Completed}
	}

	plan, err := merge.GeneratePlan(ctx, env.client(), merge.PlanInput{
		UserInput:     input.UserInput,
		Suggestions:   input.Suggestions,
		ExistingTasks: existing,
	})
	if err != nil {
		return nil, err
	}

	return &PlanMergeOutput{Plan: plan}, nil
}
