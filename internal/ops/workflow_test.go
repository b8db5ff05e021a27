package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"braindump/internal/db"
	"braindump/internal/scene"
)

// TestFullWorkflow exercises the complete brain-dump lifecycle:
// capture session → append → summarize → analyze → plan merge → apply →
// history read → runs list → history clear.
func TestFullWorkflow(t *testing.T) {
	client := &fakeClient{}
	env := newTestEnv(t, client)
	ctx := context.Background()

	_, err := env.Doc.AddTask("Email landlord")
	require.NoError(t, err)

	// 1. Capture a session
	started, err := CaptureStartSession(ctx, env)
	require.NoError(t, err)
	require.NotEmpty(t, started.SessionID)

	_, err = CaptureAppend(ctx, env, CaptureAppendInput{Lines: []string{
		"need to email the landlord about the lease and buy boxes",
	}})
	require.NoError(t, err)

	// 2. Summarize the session into the note
	sumOut, err := Summarize(ctx, env)
	require.NoError(t, err)
	require.NotEmpty(t, sumOut.Bullets)

	// 3. Analyze the captured text
	latest, err := CaptureLatest(ctx, env)
	require.NoError(t, err)
	require.Len(t, latest.Lines, 1)

	client.reply = analyzeReply
	analyzeOut, err := Analyze(ctx, env, AnalyzeInput{
		InputText: strings.Join(latest.Lines, "\n"),
		SceneID:   scene.BrainDump,
	})
	require.NoError(t, err)
	require.Equal(t, db.RunSourceLLM, analyzeOut.Source)
	require.Len(t, analyzeOut.Result.Tasks, 1)

	// 4. Plan the merge
	client.reply = `{"actions": [
		{"type": "update_task_text", "targetTaskLine": 1, "newText": "Email landlord about the lease renewal"},
		{"type": "add_task", "text": "Buy packing boxes"}
	]}`
	planOut, err := PlanMerge(ctx, env, PlanMergeInput{
		UserInput:   latest.Lines[0],
		Suggestions: []string{analyzeOut.Result.Tasks[0].Title},
	})
	require.NoError(t, err)
	require.Len(t, planOut.Plan.Actions, 2)

	// 5. Apply it
	applyOut, err := ApplyMerge(ctx, env, ApplyMergeInput{Actions: planOut.Plan.Actions})
	require.NoError(t, err)
	require.Len(t, applyOut.Applied, 2)
	require.Empty(t, applyOut.Unresolved)

	md, err := env.Doc.Markdown()
	require.NoError(t, err)
	require.Contains(t, md, "- [ ] Email landlord about the lease renewal")
	require.Contains(t, md, "- [ ] Buy packing boxes")

	// 6. History reflects the analysis
	histOut, err := HistoryRead(ctx, env)
	require.NoError(t, err)
	require.NotNil(t, histOut.History)
	require.Equal(t, "email landlord re lease", histOut.History.Result.Transcript)

	// 7. The run archive recorded it
	runsOut, err := RunsList(ctx, env, RunsListInput{})
	require.NoError(t, err)
	require.Equal(t, 1, runsOut.Total)
	require.Equal(t, analyzeOut.RunID, runsOut.Runs[0].ID)

	// 8. Clear history
	clearOut, err := HistoryClear(ctx, env)
	require.NoError(t, err)
	require.True(t, clearOut.Cleared)
}

// TestBreakdownWorkflow exercises the breakdown path with its configured
// template.
func TestBreakdownWorkflow(t *testing.T) {
	client := &fakeClient{reply: "- Pack the kitchen\n- Book the movers\n- Change the address"}
	env := newTestEnv(t, client)
	ctx := context.Background()

	out, err := Breakdown(ctx, env, BreakdownInput{TaskText: "Move house"})
	require.NoError(t, err)
	require.Equal(t, []string{"Pack the kitchen", "Book the movers", "Change the address"}, out.Subtasks)
	require.Contains(t, client.gotPrompt, "Move house")

	// Disabled in settings
	env.Config.TaskBreakdownEnabled = false
	_, err = Breakdown(ctx, env, BreakdownInput{TaskText: "Move house"})
	require.Error(t, err)

	// The plan actions land as subtasks
	env.Config.TaskBreakdownEnabled = true
	task, err := env.Doc.AddTask("Move house")
	require.NoError(t, err)
	require.NoError(t, env.Doc.InsertTasksAfter(task.ID, out.Subtasks))

	md, err := env.Doc.Markdown()
	require.NoError(t, err)
	require.Contains(t, md, "- [ ] Move house\n  - [ ] Pack the kitchen\n  - [ ] Book the movers\n  - [ ] Change the address")
}
