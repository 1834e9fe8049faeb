package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"assignboard/internal/entity"
	"assignboard/internal/logger"
	"assignboard/internal/session"
)

var pages = []string{
	"signup.html",
	"login.html",
	"dashboard.html",
	"update.html",
}

// PageData is what every page template receives. Form is never nil: each
// page reads fields from it.
type PageData struct {
	Title       string
	Flashes     []session.Flash
	UserName    string
	Form        any
	Assignments []entity.Assignment
	Assignment  entity.Assignment
}

type Renderer struct {
	pages    map[string]*template.Template
	sessions *session.Manager
	log      *slog.Logger
}

// NewRenderer parses every page together with layout.html once.
func NewRenderer(fsys fs.FS, sm *session.Manager, log *slog.Logger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02 15:04")
		},
		"inc": func(i int) int {
			return i + 1
		},
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		parsed[page] = tmpl
	}

	return &Renderer{pages: parsed, sessions: sm, log: log}, nil
}

// Render pops pending flashes into data and writes the page with status.
// The page is rendered into a buffer first so a template error still yields
// a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	log := logger.FromContext(r.Context(), rd.log)

	tmpl, ok := rd.pages[page]
	if !ok {
		serverError(w, r, rd.log, "render", fmt.Errorf("unknown page %q", page))
		return
	}

	flashes, err := rd.sessions.Flashes(w, r)
	if err != nil {
		log.Warn("read flashes", "error", err)
	}
	data.Flashes = flashes
	if id, ok := rd.sessions.Identity(r); ok {
		data.UserName = id.Name
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		serverError(w, r, rd.log, "execute template "+page, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("write response", "error", err)
	}
}
