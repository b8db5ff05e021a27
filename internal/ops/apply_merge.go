package ops

import (
	"context"

	"braindump/internal/errors"
	"braindump/internal/merge"
)

// AppliedAction describes one executed plan step.
type AppliedAction struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ApplyMergeInput contains parameters for the ApplyMerge operation.
type ApplyMergeInput struct {
	Actions []merge.Action
}

// ApplyMergeOutput contains the result of the ApplyMerge operation.
type ApplyMergeOutput struct {
	Applied []AppliedAction `json:"applied"`

	// Unresolved lists targeted actions whose task could not be found, by
	// id or by line. They are reported, never guessed at.
	Unresolved []merge.Action `json:"unresolved,omitempty"`
}

// ApplyMerge executes a merge plan against the todo document. Targets are
// re-resolved against the live task list before every mutation, since each
// edit can shift line numbers.
func ApplyMerge(ctx context.Context, env *Env, input ApplyMergeInput) (*ApplyMergeOutput, error) {
	if len(input.Actions) == 0 {
		return nil, errors.NewInvalidRequest("at least one action is required")
	}

	out := &ApplyMergeOutput{Applied: []AppliedAction{}}

	for _, action := range input.Actions {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewInternal(err)
		}

		switch action.Type {
		case merge.ActionAddTask:
			task, err := env.Doc.AddTask(action.Text)
			if err != nil {
				return nil, err
			}
			out.Applied = append(out.Applied, AppliedAction{
				Type: action.Type, TaskID: task.ID, Detail: action.Text,
			})

		case merge.ActionUpdateTaskText:
			target, ok := resolveLive(env, action)
			if !ok {
				out.Unresolved = append(out.Unresolved, action)
				continue
			}
			if err := env.Doc.UpdateTaskText(target.ID, action.NewText); err != nil {
				return nil, err
			}
			out.Applied = append(out.Applied, AppliedAction{
				Type: action.Type, TaskID: target.ID, Detail: action.NewText,
			})

		case merge.ActionAddSubtasks:
			target, ok := resolveLive(env, action)
			if !ok {
				out.Unresolved = append(out.Unresolved, action)
				continue
			}
			if err := env.Doc.InsertTasksAfter(target.ID, action.Subtasks); err != nil {
				return nil, err
			}
			out.Applied = append(out.Applied, AppliedAction{
				Type: action.Type, TaskID: target.ID,
			})

		case merge.ActionNoop:
			out.Applied = append(out.Applied, AppliedAction{
				Type: action.Type, Detail: action.Reason,
			})

		default:
			// Unknown types were already dropped during plan validation;
			// anything left is a caller bug.
			return nil, errors.NewInvalidRequest("unknown action type: " + action.Type)
		}
	}

	return out, nil
}

func resolveLive(env *Env, action merge.Action) (merge.TaskRef, bool) {
	tasks, err := env.Doc.Tasks()
	if err != nil {
		return merge.TaskRef{}, false
	}

	refs := make([]merge.TaskRef, len(tasks))
	for i, t := range tasks {
		refs[i] = merge.TaskRef{ID: t.ID, Text: t.Text, Completed: t.Completed}
	}
	return merge.ResolveTarget(action, refs)
}
