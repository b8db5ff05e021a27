package ops

import (
	"context"
	"encoding/json"
	"strings"

	"braindump/internal/braindump"
	"braindump/internal/db"
	"braindump/internal/errors"
	"braindump/internal/notes"
	"braindump/internal/scene"
)

// AnalyzeInput contains parameters for the Analyze operation.
type AnalyzeInput struct {
	InputText    string
	SceneID      scene.ID
	KBText       string
	SystemPrompt string

	// IncludeCompleted adds done tasks to the duplicate-avoidance context.
	IncludeCompleted bool
}

// AnalyzeOutput contains the result of the Analyze operation.
type AnalyzeOutput struct {
	Result *braindump.Result `json:"result"`
	Source string            `json:"source"` // llm or mock
	RunID  string            `json:"runId,omitempty"`
}

// Analyze runs the full brain-dump pipeline against the configured provider,
// falling back to the offline heuristic when the provider is unreachable.
// The outcome is persisted three ways: the note's history region, the note's
// summary region, and the run archive.
func Analyze(ctx context.Context, env *Env, input AnalyzeInput) (*AnalyzeOutput, error) {
	if strings.TrimSpace(input.InputText) == "" {
		return nil, errors.NewInvalidRequest("input text is required")
	}
	sceneID := scene.Normalize(input.SceneID)

	contextTasks, err := env.contextTasks(input.IncludeCompleted)
	if err != nil {
		return nil, err
	}

	source := db.RunSourceLLM
	result, err := braindump.Generate(ctx, env.client(), braindump.GenerateInput{
		InputText:    input.InputText,
		SceneID:      sceneID,
		ContextTasks: contextTasks,
		KBText:       input.KBText,
		SystemPrompt: input.SystemPrompt,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewProviderUnavailable(ctx.Err())
		}
		if !errors.Is(err, errors.ErrProviderUnavailable) {
			return nil, err
		}
		// Provider unreachable: degrade to the offline heuristic.
		source = db.RunSourceMock
		result = braindump.MockResult(input.InputText, sceneID)
	}

	history := &notes.History{
		UpdatedAt:                 env.timestamp(),
		Result:                    result,
		SelectedTaskIDs:           []string{},
		IncludeCompletedInContext: input.IncludeCompleted,
		KBText:                    input.KBText,
		SystemPrompt:              input.SystemPrompt,
	}
	err = env.Doc.UpdateMarkdown(func(md string) (string, error) {
		md = notes.UpsertHistory(md, history)
		return notes.UpsertSummary(md, result.SummaryBullets), nil
	})
	if err != nil {
		return nil, err
	}

	runID, err := archiveRun(ctx, env, sceneID, source, result)
	if err != nil {
		return nil, err
	}

	return &AnalyzeOutput{Result: result, Source: source, RunID: runID}, nil
}

// archiveRun records the result in the run archive. A nil DB skips it.
func archiveRun(ctx context.Context, env *Env, sceneID scene.ID, source string, result *braindump.Result) (string, error) {
	if env.DB == nil {
		return "", nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	run := &db.Run{
		ID:         env.newRunID(),
		SceneID:    string(sceneID),
		Source:     source,
		Transcript: result.Transcript,
		ResultJSON: string(payload),
		CreatedAt:  env.now().Unix(),
	}
	if err := db.InsertRun(ctx, env.DB, run); err != nil {
		return "", err
	}
	return run.ID, nil
}
