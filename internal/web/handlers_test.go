package web

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"braindump/internal/config"
	"braindump/internal/db"
	"braindump/internal/ops"
	"braindump/internal/scene"
	"braindump/internal/store"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()

	doc, err := store.Open(filepath.Join(t.TempDir(), "todo.md"))
	if err != nil {
		t.Fatal(err)
	}
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")

	env := &ops.Env{
		Doc:    doc,
		DB:     database,
		Config: config.DefaultConfig(),
		Now:    func() time.Time { return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) },
	}

	return &Handlers{
		env:      env,
		renderer: renderer,
	}
}

// seedRun archives one analysis run and returns its id.
func seedRun(t *testing.T, h *Handlers, text string) string {
	t.Helper()
	out, err := ops.Preview(context.Background(), h.env, ops.PreviewInput{
		InputText: text,
		SceneID:   scene.BrainDump,
	})
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}
	return out.RunID
}

// --- HandleNote ---

func TestHandleNote_RendersTasks(t *testing.T) {
	h := setupTest(t)
	if _, err := h.env.Doc.AddTask("Email the landlord"); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/note", nil)
	rec := httptest.NewRecorder()
	h.HandleNote(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Email the landlord") {
		t.Error("expected task text in response")
	}
}

func TestHandleNote_EmptyDocument(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/note", nil)
	rec := httptest.NewRecorder()
	h.HandleNote(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// --- HandleRuns ---

func TestHandleRuns_ListsSeededRun(t *testing.T) {
	h := setupTest(t)
	seedRun(t, h, "need to call the bank about the mortgage")

	req := httptest.NewRequest("GET", "/runs", nil)
	rec := httptest.NewRecorder()
	h.HandleRuns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "need to call the bank") {
		t.Error("expected run transcript in response")
	}
	if !strings.Contains(body, "mock") {
		t.Error("expected run source in response")
	}
}

func TestHandleRuns_SceneFilter(t *testing.T) {
	h := setupTest(t)
	seedRun(t, h, "brain dump entry")

	req := httptest.NewRequest("GET", "/runs?scene_id=dev-todo", nil)
	rec := httptest.NewRecorder()
	h.HandleRuns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "brain dump entry") {
		t.Error("did not expect brain-dump run under dev-todo filter")
	}
}

// --- HandleRunDetail ---

func TestHandleRunDetail(t *testing.T) {
	h := setupTest(t)
	id := seedRun(t, h, "need to call the bank about the mortgage")

	req := httptest.NewRequest("GET", "/runs/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleRunDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, id) {
		t.Error("expected run id in response")
	}
	if !strings.Contains(body, "summaryBullets") {
		t.Error("expected result JSON in response")
	}
}

func TestHandleRunDetail_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/runs/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.HandleRunDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleRunDetail_JSONErrorNegotiation(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/runs/missing", nil)
	req.SetPathValue("id", "missing")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleRunDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Error("expected NOT_FOUND code in JSON error")
	}
}
