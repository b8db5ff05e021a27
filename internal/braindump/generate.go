package braindump

import (
	"context"
	"strings"

	"braindump/internal/llm"
	"braindump/internal/scene"
)

// Client is the slice of the provider surface the analyzer needs.
type Client interface {
	Generate(ctx context.Context, prompt string, contextTasks []llm.ContextTask) (string, error)
}

// GenerateInput carries one analysis request.
type GenerateInput struct {
	InputText    string
	SceneID      scene.ID
	ContextTasks []llm.ContextTask
	KBText       string
	SystemPrompt string
}

// Generate runs the full analysis pipeline: build the prompt, call the
// provider, validate the reply. Provider transport errors propagate so the
// caller can fall back to MockResult; everything else degrades to an
// always-renderable Result.
func Generate(ctx context.Context, client Client, in GenerateInput) (*Result, error) {
	trimmed := strings.TrimSpace(in.InputText)
	if trimmed == "" {
		return &Result{
			SceneID:             in.SceneID,
			SummaryBullets:      []string{"(No input)"},
			NextActions:         []string{},
			ClarifyingQuestions: []ClarifyingQuestion{},
			Tasks:               []TaskSuggestion{},
			Transcript:          "",
		}, nil
	}

	prompt := BuildPrompt(PromptInput{
		InputText:    trimmed,
		SceneID:      in.SceneID,
		KBText:       in.KBText,
		SystemPrompt: in.SystemPrompt,
	})

	contextTasks := in.ContextTasks
	if len(contextTasks) > MaxContextTasks {
		contextTasks = contextTasks[:MaxContextTasks]
	}

	raw, err := client.Generate(ctx, prompt, contextTasks)
	if err != nil {
		return nil, err
	}

	return ParseReply(raw, trimmed, in.SceneID), nil
}
