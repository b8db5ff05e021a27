package braindump

import (
	"braindump/internal/scene"
)

// Field count clamps applied during response validation. These bound prompt
// injection and size blowups from a misbehaving model reply.
const (
	MaxSummaryBullets      = 5
	MaxNextActions         = 3
	MaxClarifyingQuestions = 2
	MaxQuestionChoices     = 6
	MaxTasks               = 12
	MaxTags                = 5
	MaxContextTasks        = 50
)

// TaskSuggestion is one candidate task extracted from the user's input.
type TaskSuggestion struct {
	// ID is process-local and not stable across runs; it keys UI selection
	// state only.
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`

	// DueDate is a strict YYYY-MM-DD string. Non-conforming model output is
	// dropped during validation, never coerced.
	DueDate string `json:"dueDate,omitempty"`

	// Confidence is clamped to [0,1]; zero-value with OK=false is encoded as
	// absence via the pointer.
	Confidence *float64 `json:"confidence,omitempty"`
	Rationale  string   `json:"rationale,omitempty"`
}

// ClarifyingQuestion asks the user to resolve an ambiguity in their input.
type ClarifyingQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices,omitempty"`
}

// Result is the structured outcome of one analysis run.
type Result struct {
	SceneID scene.ID `json:"sceneId"`

	// SummaryBullets is never empty after normalization: parse failures and
	// missing fields synthesize a fallback bullet.
	SummaryBullets []string `json:"summaryBullets"`

	// NextActions is filled by the LLM path; MindClearingHints by the
	// heuristic mock path.
	NextActions       []string `json:"nextActions,omitempty"`
	MindClearingHints []string `json:"mindClearingHints,omitempty"`

	ClarifyingQuestions []ClarifyingQuestion `json:"clarifyingQuestions"`
	Tasks               []TaskSuggestion     `json:"tasks"`

	// Transcript is the source text the result was derived from.
	Transcript string `json:"transcript"`
}
