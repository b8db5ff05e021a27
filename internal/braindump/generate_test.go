package braindump

import (
	"context"
	"strings"
	"testing"

	"braindump/internal/errors"
	"braindump/internal/llm"
	"braindump/internal/scene"
)

type fakeClient struct {
	reply        string
	err          error
	gotPrompt    string
	gotTasks     []llm.ContextTask
	called       int
}

func (f *fakeClient) Generate(_ context.Context, prompt string, contextTasks []llm.ContextTask) (string, error) {
	f.called++
	f.gotPrompt = prompt
	f.gotTasks = contextTasks
	return f.reply, f.err
}

func TestGenerateEmptyInput(t *testing.T) {
	client := &fakeClient{}
	res, err := Generate(context.Background(), client, GenerateInput{InputText: "  \n ", SceneID: scene.BrainDump})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if client.called != 0 {
		t.Fatal("provider must not be called for empty input")
	}
	if len(res.SummaryBullets) != 1 || res.SummaryBullets[0] != "(No input)" {
		t.Fatalf("summaryBullets = %v", res.SummaryBullets)
	}
	if res.Transcript != "" {
		t.Fatalf("transcript = %q", res.Transcript)
	}
}

func TestGeneratePromptContents(t *testing.T) {
	client := &fakeClient{reply: "```json\n{\"summaryBullets\": [\"hello from the model\"]}\n```"}
	in := GenerateInput{
		InputText:    "  sort the inbox and archive old threads  ",
		SceneID:      scene.DevTodo,
		KBText:       "project alpha ships friday",
		SystemPrompt: "be terse",
	}

	res, err := Generate(context.Background(), client, in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"You are Brain Dump Analyzer.",
		"Scene: dev-todo",
		"System notes (user provided):\nbe terse",
		"Knowledge base notes (user provided):\nproject alpha ships friday",
		"Return STRICT JSON ONLY. No prose. No markdown fences.",
		"User input:\nsort the inbox and archive old threads",
	} {
		if !strings.Contains(client.gotPrompt, want) {
			t.Fatalf("prompt missing %q\n%s", want, client.gotPrompt)
		}
	}
	if res.SummaryBullets[0] != "hello from the model" {
		t.Fatalf("summaryBullets = %v", res.SummaryBullets)
	}
}

func TestGenerateContextTaskCap(t *testing.T) {
	tasks := make([]llm.ContextTask, MaxContextTasks+10)
	for i := range tasks {
		tasks[i] = llm.ContextTask{Content: "existing task"}
	}

	client := &fakeClient{reply: `{"summaryBullets": ["noted all the things"]}`}
	if _, err := Generate(context.Background(), client, GenerateInput{
		InputText:    "lots of loose ends around the house and garden",
		SceneID:      scene.BrainDump,
		ContextTasks: tasks,
	}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(client.gotTasks) != MaxContextTasks {
		t.Fatalf("context tasks sent = %d", len(client.gotTasks))
	}
}

func TestGenerateProviderErrorPropagates(t *testing.T) {
	client := &fakeClient{err: errors.NewProviderUnavailable(context.DeadlineExceeded)}
	_, err := Generate(context.Background(), client, GenerateInput{
		InputText: "think through the migration plan and rollback steps",
		SceneID:   scene.BrainDump,
	})
	if !errors.Is(err, errors.ErrProviderUnavailable) {
		t.Fatalf("want PROVIDER_UNAVAILABLE, got %v", err)
	}
}
