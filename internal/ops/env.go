// Package ops implements the plugin's operations. Each operation lives in
// its own file with Input/Output structs and returns structured errors.
package ops

import (
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"braindump/internal/braindump"
	"braindump/internal/config"
	"braindump/internal/llm"
	"braindump/internal/store"
)

// timestampLayout renders session and history timestamps, UTC with
// millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Env bundles the collaborators operations run against. DB may be nil, in
// which case run archiving is skipped.
type Env struct {
	Doc    *store.Document
	DB     *sql.DB
	Config *config.Config

	// Client overrides the provider client; when nil one is built from
	// Config per call. Tests inject fakes here.
	Client braindump.Client

	// Now overrides the clock for tests.
	Now func() time.Time
}

func (e *Env) client() braindump.Client {
	if e.Client != nil {
		return e.Client
	}
	return llm.New(e.Config)
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) timestamp() string {
	return e.now().UTC().Format(timestampLayout)
}

func (e *Env) newRunID() string {
	return ulid.MustNew(ulid.Timestamp(e.now()), ulid.DefaultEntropy()).String()
}

// contextTasks converts the document's tasks for the provider payload,
// optionally filtering out completed ones.
func (e *Env) contextTasks(includeCompleted bool) ([]llm.ContextTask, error) {
	tasks, err := e.Doc.Tasks()
	if err != nil {
		return nil, err
	}

	out := make([]llm.ContextTask, 0, len(tasks))
	for _, t := range tasks {
		if !includeCompleted && t.Completed {
			continue
		}
		out = append(out, llm.ContextTask{Content: t.Text, Completed: t.Completed})
	}
	return out, nil
}
