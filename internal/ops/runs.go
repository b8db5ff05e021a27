package ops

import (
	"context"
	"encoding/json"
	"strings"

	"braindump/internal/braindump"
	"braindump/internal/db"
	"braindump/internal/errors"
	"braindump/internal/scene"
)

// RunSummary is one archive entry without its full result payload.
type RunSummary struct {
	ID         string `json:"id"`
	SceneID    string `json:"sceneId"`
	Source     string `json:"source"`
	Transcript string `json:"transcript"`
	CreatedAt  int64  `json:"createdAt"`
}

// RunsListInput contains parameters for the RunsList operation.
type RunsListInput struct {
	SceneID scene.ID // optional filter
	Limit   int      // default 20, max 100
	Offset  int
}

// RunsListOutput contains the result of the RunsList operation.
type RunsListOutput struct {
	Runs  []RunSummary `json:"runs"`
	Total int          `json:"total"`
}

// RunsList pages through archived runs, newest first.
func RunsList(ctx context.Context, env *Env, input RunsListInput) (*RunsListOutput, error) {
	if env.DB == nil {
		return nil, errors.NewInvalidRequest("run archive is not enabled")
	}

	sceneFilter := ""
	if input.SceneID != "" {
		if !scene.Valid(input.SceneID) {
			return nil, errors.NewInvalidRequest("unknown scene: " + string(input.SceneID))
		}
		sceneFilter = string(input.SceneID)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	runs, err := db.ListRuns(ctx, env.DB, sceneFilter, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.CountRuns(ctx, env.DB, sceneFilter)
	if err != nil {
		return nil, err
	}

	out := &RunsListOutput{Runs: make([]RunSummary, len(runs)), Total: total}
	for i, r := range runs {
		out.Runs[i] = RunSummary{
			ID:         r.ID,
			SceneID:    r.SceneID,
			Source:     r.Source,
			Transcript: r.Transcript,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

// RunsGetInput contains parameters for the RunsGet operation.
type RunsGetInput struct {
	ID string
}

// RunsGetOutput contains the result of the RunsGet operation.
type RunsGetOutput struct {
	Run    RunSummary        `json:"run"`
	Result *braindump.Result `json:"result"`
}

// RunsGet fetches one archived run with its full result.
func RunsGet(ctx context.Context, env *Env, input RunsGetInput) (*RunsGetOutput, error) {
	if env.DB == nil {
		return nil, errors.NewInvalidRequest("run archive is not enabled")
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("run id is required")
	}

	r, err := db.GetRun(ctx, env.DB, input.ID)
	if err != nil {
		return nil, err
	}

	var result braindump.Result
	if err := json.Unmarshal([]byte(r.ResultJSON), &result); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &RunsGetOutput{
		Run: RunSummary{
			ID:         r.ID,
			SceneID:    r.SceneID,
			Source:     r.Source,
			Transcript: r.Transcript,
			CreatedAt:  r.CreatedAt,
		},
		Result: &result,
	}, nil
}
