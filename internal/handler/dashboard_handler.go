package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"assignboard/internal/logger"
	"assignboard/internal/session"
)

type DashboardHandler struct {
	assignments AssignmentStore
	sessions    *session.Manager
	render      *Renderer
	log         *slog.Logger
}

func NewDashboardHandler(assignments AssignmentStore, sm *session.Manager, render *Renderer, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		assignments: assignments,
		sessions:    sm,
		render:      render,
		log:         log,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, AssignmentInput{})
}

func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := DecodeAssignment(r)
	var formErr *FormError
	if errors.As(err, &formErr) {
		flash(w, r, h.sessions, h.log, session.Danger, formErr.Message)
		h.show(w, r, in)
		return
	}
	if err != nil {
		http.Error(w, "bad form submission", http.StatusBadRequest)
		return
	}

	a, err := h.assignments.Create(r.Context(), in.Title, in.Description)
	if err != nil {
		serverError(w, r, h.log, "create assignment", err)
		return
	}

	logger.FromContext(r.Context(), h.log).Info("assignment created", "assignment_id", a.ID)
	flash(w, r, h.sessions, h.log, session.Success, "Assignment added successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// show renders the list of assignments with form pre-filled.
func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request, form AssignmentInput) {
	list, err := h.assignments.List(r.Context())
	if err != nil {
		serverError(w, r, h.log, "list assignments", err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "dashboard.html", PageData{
		Title:       "Dashboard",
		Form:        form,
		Assignments: list,
	})
}
