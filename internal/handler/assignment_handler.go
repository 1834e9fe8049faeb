package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"assignboard/internal/entity"
	"assignboard/internal/logger"
	"assignboard/internal/repository"
	"assignboard/internal/session"
)

type AssignmentHandler struct {
	assignments AssignmentStore
	sessions    *session.Manager
	render      *Renderer
	log         *slog.Logger
}

func NewAssignmentHandler(assignments AssignmentStore, sm *session.Manager, render *Renderer, log *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		sessions:    sm,
		render:      render,
		log:         log,
	}
}

func (h *AssignmentHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.showUpdate(w, r, a, AssignmentInput{Title: a.Title, Description: a.Description})
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}

	in, err := DecodeAssignment(r)
	var formErr *FormError
	if errors.As(err, &formErr) {
		flash(w, r, h.sessions, h.log, session.Danger, formErr.Message)
		h.showUpdate(w, r, a, in)
		return
	}
	if err != nil {
		http.Error(w, "bad form submission", http.StatusBadRequest)
		return
	}

	err = h.assignments.Update(r.Context(), a.ID, in.Title, in.Description)
	if errors.Is(err, repository.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, h.log, "update assignment", err)
		return
	}

	logger.FromContext(r.Context(), h.log).Info("assignment updated", "assignment_id", a.ID)
	flash(w, r, h.sessions, h.log, session.Success, "Assignment updated successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.assignments.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, h.log, "delete assignment", err)
		return
	}

	logger.FromContext(r.Context(), h.log).Info("assignment deleted", "assignment_id", id)
	flash(w, r, h.sessions, h.log, session.Success, "Assignment deleted successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// lookup resolves the {id} path value, answering 404 itself when the
// assignment does not exist.
func (h *AssignmentHandler) lookup(w http.ResponseWriter, r *http.Request) (entity.Assignment, bool) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return entity.Assignment{}, false
	}

	a, err := h.assignments.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.NotFound(w, r)
		return entity.Assignment{}, false
	}
	if err != nil {
		serverError(w, r, h.log, "get assignment", err)
		return entity.Assignment{}, false
	}
	return a, true
}

func (h *AssignmentHandler) showUpdate(w http.ResponseWriter, r *http.Request, a entity.Assignment, form AssignmentInput) {
	h.render.Render(w, r, http.StatusOK, "update.html", PageData{
		Title:      "Update assignment",
		Form:       form,
		Assignment: a,
	})
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
