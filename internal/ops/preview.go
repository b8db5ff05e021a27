package ops

import (
	"context"
	"strings"

	"braindump/internal/braindump"
	"braindump/internal/db"
	"braindump/internal/errors"
	"braindump/internal/scene"
)

// PreviewInput contains parameters for the Preview operation.
type PreviewInput struct {
	InputText string
	SceneID   scene.ID
}

// PreviewOutput contains the result of the Preview operation.
type PreviewOutput struct {
	Result *braindump.Result `json:"result"`
	RunID  string            `json:"runId,omitempty"`
}

// Preview runs the offline heuristic analyzer without touching the note.
// No provider call, no history or summary writes; only the run archive
// records that a preview happened.
func Preview(ctx context.Context, env *Env, input PreviewInput) (*PreviewOutput, error) {
	if strings.TrimSpace(input.InputText) == "" {
		return nil, errors.NewInvalidRequest("input text is required")
	}
	sceneID := scene.Normalize(input.SceneID)

	result := braindump.MockResult(input.InputText, sceneID)

	runID, err := archiveRun(ctx, env, sceneID, db.RunSourceMock, result)
	if err != nil {
		return nil, err
	}

	return &PreviewOutput{Result: result, RunID: runID}, nil
}
