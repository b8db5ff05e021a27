package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"braindump/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"dump_analyze": {
		def:     analyzeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAnalyze },
	},
	"dump_preview": {
		def:     previewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePreview },
	},
	"merge_plan": {
		def:     mergePlanToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMergePlan },
	},
	"merge_apply": {
		def:     mergeApplyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMergeApply },
	},
	"task_breakdown": {
		def:     breakdownToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBreakdown },
	},
	"capture_append": {
		def:     captureAppendToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureAppend },
	},
	"capture_start_session": {
		def:     captureStartSessionToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureStartSession },
	},
	"capture_latest": {
		def:     captureLatestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureLatest },
	},
	"capture_summarize": {
		def:     captureSummarizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSummarize },
	},
	"history_read": {
		def:     historyReadToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryRead },
	},
	"history_clear": {
		def:     historyClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryClear },
	},
	"runs_list": {
		def:     runsListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunsList },
	},
	"runs_get": {
		def:     runsGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunsGet },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the brain-dump tools registered.
// Tools listed in env.Config.DisabledTools are excluded from registration.
func NewServer(env *ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"braindump",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(env)

	disabled := make(map[string]bool)
	for _, name := range env.Config.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(env *ops.Env, version string) error {
	s := NewServer(env, version)
	return server.ServeStdio(s)
}
