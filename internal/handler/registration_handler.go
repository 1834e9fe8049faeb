package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"assignboard/internal/auth"
	"assignboard/internal/logger"
	"assignboard/internal/repository"
	"assignboard/internal/session"
)

type RegistrationHandler struct {
	users    UserStore
	sessions *session.Manager
	render   *Renderer
	log      *slog.Logger
}

func NewRegistrationHandler(users UserStore, sm *session.Manager, render *Renderer, log *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		users:    users,
		sessions: sm,
		render:   render,
		log:      log,
	}
}

func (h *RegistrationHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "signup.html", PageData{
		Title: "Sign up",
		Form:  SignupInput{},
	})
}

func (h *RegistrationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	in, err := DecodeSignup(r)
	var formErr *FormError
	if errors.As(err, &formErr) {
		h.reject(w, r, in, session.Danger, formErr.Message)
		return
	}
	if err != nil {
		http.Error(w, "bad form submission", http.StatusBadRequest)
		return
	}

	_, err = h.users.GetByEmail(r.Context(), in.Email)
	switch {
	case err == nil:
		h.reject(w, r, in, session.Warning, "Email already registered!")
		return
	case !errors.Is(err, repository.ErrNotFound):
		serverError(w, r, h.log, "look up email", err)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		serverError(w, r, h.log, "hash password", err)
		return
	}

	user, err := h.users.Create(r.Context(), in.Name, in.Email, hash)
	if errors.Is(err, repository.ErrEmailTaken) {
		h.reject(w, r, in, session.Warning, "Email already registered!")
		return
	}
	if err != nil {
		serverError(w, r, h.log, "create user", err)
		return
	}

	logger.FromContext(r.Context(), h.log).Info("user registered", "user_id", user.ID)
	flash(w, r, h.sessions, h.log, session.Success, "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// reject re-renders the form with the submitted name and email kept.
func (h *RegistrationHandler) reject(w http.ResponseWriter, r *http.Request, in SignupInput, category, message string) {
	flash(w, r, h.sessions, h.log, category, message)
	h.render.Render(w, r, http.StatusOK, "signup.html", PageData{
		Title: "Sign up",
		Form:  SignupInput{Name: in.Name, Email: in.Email},
	})
}
