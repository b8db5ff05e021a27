package notes

import (
	"encoding/json"
	"strings"

	"braindump/internal/braindump"
)

const (
	HistoryStart = "<!-- AI_BRAIN_DUMP_HISTORY:START -->"
	HistoryEnd   = "<!-- AI_BRAIN_DUMP_HISTORY:END -->"
)

// History is the last analysis run persisted inside the note, including the
// UI selection state so a restored session picks up where it left off.
type History struct {
	UpdatedAt                 string            `json:"updatedAt"`
	Result                    *braindump.Result `json:"result"`
	SelectedTaskIDs           []string          `json:"selectedTaskIds"`
	IncludeCompletedInContext bool              `json:"includeCompletedInContext"`
	KBText                    string            `json:"kbText"`
	SystemPrompt              string            `json:"systemPrompt"`
}

// historyFile mirrors History with pointer fields so absent keys can fall
// back to defaults instead of zero values.
type historyFile struct {
	UpdatedAt                 *string           `json:"updatedAt"`
	Result                    *braindump.Result `json:"result"`
	SelectedTaskIDs           []any             `json:"selectedTaskIds"`
	IncludeCompletedInContext *bool             `json:"includeCompletedInContext"`
	KBText                    *string           `json:"kbText"`
	SystemPrompt              *string           `json:"systemPrompt"`
}

// ReadHistory parses the history region. Any malformed payload yields nil;
// history is a cache, not a source of truth, so corruption is never an error.
func ReadHistory(markdown string) *History {
	md := normalizeNewlines(markdown)
	start := strings.Index(md, HistoryStart)
	end := strings.Index(md, HistoryEnd)
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	raw := strings.TrimSpace(md[start+len(HistoryStart) : end])
	if raw == "" {
		return nil
	}

	var parsed historyFile
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	if parsed.Result == nil || parsed.UpdatedAt == nil {
		return nil
	}

	out := &History{
		UpdatedAt:                 *parsed.UpdatedAt,
		Result:                    parsed.Result,
		SelectedTaskIDs:           []string{},
		IncludeCompletedInContext: true,
	}
	for _, v := range parsed.SelectedTaskIDs {
		if s, ok := v.(string); ok {
			out.SelectedTaskIDs = append(out.SelectedTaskIDs, s)
		}
	}
	if parsed.IncludeCompletedInContext != nil {
		out.IncludeCompletedInContext = *parsed.IncludeCompletedInContext
	}
	if parsed.KBText != nil {
		out.KBText = *parsed.KBText
	}
	if parsed.SystemPrompt != nil {
		out.SystemPrompt = *parsed.SystemPrompt
	}
	return out
}

// UpsertHistory writes the history payload into its region, creating the
// region at the end of the note when missing.
func UpsertHistory(markdown string, history *History) string {
	md := normalizeNewlines(markdown)

	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return md
	}

	if !strings.Contains(md, HistoryStart) || !strings.Contains(md, HistoryEnd) {
		return strings.TrimRight(md, " \t\n") + "\n\n" + HistoryStart + "\n" + string(payload) + "\n" + HistoryEnd + "\n"
	}

	start := strings.Index(md, HistoryStart)
	end := strings.Index(md, HistoryEnd)
	if start == -1 || end == -1 || end <= start {
		return md
	}

	before := md[:start+len(HistoryStart)]
	after := md[end:]
	return before + "\n" + string(payload) + "\n" + after
}

// ClearHistory removes the history region entirely, markers included,
// closing the gap it leaves behind.
func ClearHistory(markdown string) string {
	md := normalizeNewlines(markdown)
	start := strings.Index(md, HistoryStart)
	end := strings.Index(md, HistoryEnd)
	if start == -1 || end == -1 || end <= start {
		return md
	}

	before := strings.TrimRight(md[:start], " \t\n")
	after := strings.TrimLeft(md[end+len(HistoryEnd):], " \t\n")
	return strings.TrimRight(before+"\n\n"+after, " \t\n") + "\n"
}
