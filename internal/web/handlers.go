package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"braindump/internal/errors"
	"braindump/internal/notes"
	"braindump/internal/ops"
	"braindump/internal/scene"
)

// Handlers contains HTTP route handlers for the read-only preview UI.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
}

// HandleNote handles GET /note — render the todo note with its capture and
// summary regions.
func (h *Handlers) HandleNote(w http.ResponseWriter, r *http.Request) {
	md, err := h.env.Doc.Markdown()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	sessionID, lines := notes.LatestSession(notes.CaptureLines(md))

	h.renderer.renderPage(w, "note", NotePageData{
		PageData: PageData{
			Title:   "Note",
			Version: h.renderer.version,
			Nav:     "note",
		},
		RenderedHTML: renderMarkdown(md),
		History:      notes.ReadHistory(md),
		SessionID:    sessionID,
		CaptureLines: lines,
	})
}

// HandleRuns handles GET /runs — list archived analysis runs.
func (h *Handlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	input := ops.RunsListInput{
		Limit:  parseIntParam(r, "limit", 20),
		Offset: parseIntParam(r, "offset", 0),
	}
	sceneID := r.URL.Query().Get("scene_id")
	if sceneID != "" {
		input.SceneID = scene.ID(sceneID)
	}

	result, err := ops.RunsList(r.Context(), h.env, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "runs", RunsPageData{
		PageData: PageData{
			Title:   "Runs",
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Runs:    result.Runs,
		Total:   result.Total,
		Limit:   input.Limit,
		Offset:  input.Offset,
		SceneID: sceneID,
	})
}

// HandleRunDetail handles GET /runs/{id} — view one archived run.
func (h *Handlers) HandleRunDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("run id is required"))
		return
	}

	result, err := ops.RunsGet(r.Context(), h.env, ops.RunsGetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	pretty, err := json.MarshalIndent(result.Result, "", "  ")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	h.renderer.renderPage(w, "run", RunPageData{
		PageData: PageData{
			Title:   "Run " + id,
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Run:        result.Run,
		ResultJSON: string(pretty),
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
