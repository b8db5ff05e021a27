package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"braindump/internal/errors"
	"braindump/internal/merge"
	"braindump/internal/ops"
	"braindump/internal/scene"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// AnalyzeRequest represents the arguments for dump_analyze.
type AnalyzeRequest struct {
	Text             string `json:"text"`
	SceneID          string `json:"scene_id,omitempty"`
	KBText           string `json:"kb_text,omitempty"`
	SystemPrompt     string `json:"system_prompt,omitempty"`
	IncludeCompleted *bool  `json:"include_completed,omitempty"`
}

// PreviewRequest represents the arguments for dump_preview.
type PreviewRequest struct {
	Text    string `json:"text"`
	SceneID string `json:"scene_id,omitempty"`
}

// MergePlanRequest represents the arguments for merge_plan.
type MergePlanRequest struct {
	UserInput   string   `json:"user_input,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// MergeApplyRequest represents the arguments for merge_apply.
type MergeApplyRequest struct {
	Actions []merge.Action `json:"actions"`
}

// BreakdownRequest represents the arguments for task_breakdown.
type BreakdownRequest struct {
	TaskText string `json:"task_text"`
	Prompt   string `json:"prompt,omitempty"`
}

// CaptureAppendRequest represents the arguments for capture_append.
type CaptureAppendRequest struct {
	Lines []string `json:"lines"`
}

// RunsListRequest represents the arguments for runs_list.
type RunsListRequest struct {
	SceneID string `json:"scene_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// RunsGetRequest represents the arguments for runs_get.
type RunsGetRequest struct {
	ID string `json:"id"`
}

// Handler implementations

// HandleAnalyze handles the dump_analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// Absent include_completed falls back to the configured default.
	includeCompleted := h.env.Config.IncludeCompletedByDefault
	if input.IncludeCompleted != nil {
		includeCompleted = *input.IncludeCompleted
	}

	result, err := ops.Analyze(ctx, h.env, ops.AnalyzeInput{
		InputText:        input.Text,
		SceneID:          scene.ID(input.SceneID),
		KBText:           input.KBText,
		SystemPrompt:     input.SystemPrompt,
		IncludeCompleted: includeCompleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePreview handles the dump_preview tool call.
func (h *Handlers) HandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PreviewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Preview(ctx, h.env, ops.PreviewInput{
		InputText: input.Text,
		SceneID:   scene.ID(input.SceneID),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMergePlan handles the merge_plan tool call.
func (h *Handlers) HandleMergePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MergePlanRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PlanMerge(ctx, h.env, ops.PlanMergeInput{
		UserInput:   input.UserInput,
		Suggestions: input.Suggestions,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMergeApply handles the merge_apply tool call.
func (h *Handlers) HandleMergeApply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MergeApplyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ApplyMerge(ctx, h.env, ops.ApplyMergeInput{Actions: input.Actions})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBreakdown handles the task_breakdown tool call.
func (h *Handlers) HandleBreakdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BreakdownRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Breakdown(ctx, h.env, ops.BreakdownInput{
		TaskText:       input.TaskText,
		PromptOverride: input.Prompt,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCaptureAppend handles the capture_append tool call.
func (h *Handlers) HandleCaptureAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureAppendRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CaptureAppend(ctx, h.env, ops.CaptureAppendInput{Lines: input.Lines})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCaptureStartSession handles the capture_start_session tool call.
func (h *Handlers) HandleCaptureStartSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.CaptureStartSession(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCaptureLatest handles the capture_latest tool call.
func (h *Handlers) HandleCaptureLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.CaptureLatest(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSummarize handles the capture_summarize tool call.
func (h *Handlers) HandleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Summarize(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistoryRead handles the history_read tool call.
func (h *Handlers) HandleHistoryRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.HistoryRead(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.HistoryClear(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRunsList handles the runs_list tool call.
func (h *Handlers) HandleRunsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunsListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RunsList(ctx, h.env, ops.RunsListInput{
		SceneID: scene.ID(input.SceneID),
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRunsGet handles the runs_get tool call.
func (h *Handlers) HandleRunsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunsGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RunsGet(ctx, h.env, ops.RunsGetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if e, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    e.Code,
			"message": e.Message,
			"status":  e.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if e.Code != errors.ErrInternal && e.Details != nil {
			errorObj["details"] = e.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
