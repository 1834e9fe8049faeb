package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"assignboard/internal/entity"
	"assignboard/internal/session"
	"assignboard/internal/templates"

	"github.com/gorilla/sessions"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	sm := session.NewManager(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), "app-session")
	rd, err := NewRenderer(templates.FS, sm, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return rd
}

func TestNewRendererMissingPage(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
	}
	if _, err := NewRenderer(fsys, nil, nil); err == nil {
		t.Error("expected an error when page templates are missing")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	rd := newRenderer(t)
	rec := httptest.NewRecorder()
	rd.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope.html", PageData{})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRenderDashboardEscapesContent(t *testing.T) {
	rd := newRenderer(t)
	rec := httptest.NewRecorder()
	rd.Render(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil), http.StatusOK, "dashboard.html", PageData{
		Title: "Dashboard",
		Form:  AssignmentInput{},
		Assignments: []entity.Assignment{
			{ID: 1, Title: "<script>x</script>", Description: "D", CreatedAt: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>x</script>") {
		t.Error("title was not escaped")
	}
	if !strings.Contains(body, "2026-10-19 09:30") {
		t.Error("created_at not formatted")
	}
	if !strings.Contains(body, `action="/delete/1"`) {
		t.Error("delete form missing")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderDashboardZeroCreatedAt(t *testing.T) {
	rd := newRenderer(t)
	rec := httptest.NewRecorder()
	rd.Render(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil), http.StatusOK, "dashboard.html", PageData{
		Title:       "Dashboard",
		Form:        AssignmentInput{},
		Assignments: []entity.Assignment{{ID: 1, Title: "T", Description: "D"}},
	})

	body := rec.Body.String()
	if !strings.Contains(body, "<td>-</td>") {
		t.Error("zero created_at not rendered as -")
	}
	if strings.Contains(body, "0001-01-01") {
		t.Error("zero time leaked into the page")
	}
}
