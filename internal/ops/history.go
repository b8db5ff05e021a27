package ops

import (
	"context"

	"braindump/internal/notes"
)

// HistoryReadOutput contains the result of the HistoryRead operation.
type HistoryReadOutput struct {
	// History is nil when the note has no (valid) history region.
	History *notes.History `json:"history"`
}

// HistoryRead returns the last persisted analysis, or nil when there is
// none. A corrupt region reads as absent rather than erroring; history is a
// cache.
func HistoryRead(ctx context.Context, env *Env) (*HistoryReadOutput, error) {
	md, err := env.Doc.Markdown()
	if err != nil {
		return nil, err
	}
	return &HistoryReadOutput{History: notes.ReadHistory(md)}, nil
}

// HistoryClearOutput contains the result of the HistoryClear operation.
type HistoryClearOutput struct {
	Cleared bool `json:"cleared"`
}

// HistoryClear removes the history region from the note, markers included.
func HistoryClear(ctx context.Context, env *Env) (*HistoryClearOutput, error) {
	cleared := false
	err := env.Doc.UpdateMarkdown(func(md string) (string, error) {
		updated := notes.ClearHistory(md)
		cleared = updated != md
		return updated, nil
	})
	if err != nil {
		return nil, err
	}
	return &HistoryClearOutput{Cleared: cleared}, nil
}
