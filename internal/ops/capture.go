package ops

import (
	"context"
	"strings"

	"braindump/internal/errors"
	"braindump/internal/notes"
)

// CaptureAppendInput contains parameters for the CaptureAppend operation.
type CaptureAppendInput struct {
	Lines []string
}

// CaptureAppendOutput contains the result of the CaptureAppend operation.
type CaptureAppendOutput struct {
	Appended int `json:"appended"`
}

// CaptureAppend adds transcript lines to the note's capture region as
// "[ISO8601] text" entries, creating the region on first use. Blank lines
// are dropped.
func CaptureAppend(ctx context.Context, env *Env, input CaptureAppendInput) (*CaptureAppendOutput, error) {
	stamp := env.timestamp()
	lines := make([]string, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, "["+stamp+"] "+l)
		}
	}
	if len(lines) == 0 {
		return nil, errors.NewInvalidRequest("at least one non-empty line is required")
	}

	err := env.Doc.UpdateMarkdown(func(md string) (string, error) {
		for _, l := range lines {
			md = notes.AppendCaptureLine(md, l)
		}
		return md, nil
	})
	if err != nil {
		return nil, err
	}

	return &CaptureAppendOutput{Appended: len(lines)}, nil
}

// CaptureStartSessionOutput contains the result of the CaptureStartSession
// operation.
type CaptureStartSessionOutput struct {
	SessionID string `json:"sessionId"`
}

// CaptureStartSession opens a new capture session by writing its timestamp
// marker line.
func CaptureStartSession(ctx context.Context, env *Env) (*CaptureStartSessionOutput, error) {
	sessionID := env.timestamp()

	err := env.Doc.UpdateMarkdown(func(md string) (string, error) {
		return notes.AppendCaptureLine(md, notes.SessionMarker(sessionID)), nil
	})
	if err != nil {
		return nil, err
	}

	return &CaptureStartSessionOutput{SessionID: sessionID}, nil
}

// CaptureLatestOutput contains the result of the CaptureLatest operation.
type CaptureLatestOutput struct {
	SessionID string   `json:"sessionId,omitempty"`
	Lines     []string `json:"lines"`
}

// CaptureLatest returns the most recent non-empty capture session. Without
// session markers the whole capture log counts as one session.
func CaptureLatest(ctx context.Context, env *Env) (*CaptureLatestOutput, error) {
	md, err := env.Doc.Markdown()
	if err != nil {
		return nil, err
	}

	sessionID, lines := notes.LatestSession(notes.CaptureLines(md))
	if lines == nil {
		lines = []string{}
	}
	return &CaptureLatestOutput{SessionID: sessionID, Lines: lines}, nil
}

// SummarizeOutput contains the result of the Summarize operation.
type SummarizeOutput struct {
	Bullets []string `json:"bullets"`
}

// Summarize condenses the latest capture session into summary bullets and
// writes them to the note's summary region. The summarizer is the offline
// heuristic; captured speech never goes to a provider on this path.
func Summarize(ctx context.Context, env *Env) (*SummarizeOutput, error) {
	md, err := env.Doc.Markdown()
	if err != nil {
		return nil, err
	}

	_, lines := notes.LatestSession(notes.CaptureLines(md))
	bullets := notes.SimpleSummarize(lines)

	err = env.Doc.UpdateMarkdown(func(md string) (string, error) {
		return notes.UpsertSummary(md, bullets), nil
	})
	if err != nil {
		return nil, err
	}

	if bullets == nil {
		bullets = []string{}
	}
	return &SummarizeOutput{Bullets: bullets}, nil
}
