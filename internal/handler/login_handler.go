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

type LoginHandler struct {
	users    UserStore
	sessions *session.Manager
	render   *Renderer
	log      *slog.Logger
}

func NewLoginHandler(users UserStore, sm *session.Manager, render *Renderer, log *slog.Logger) *LoginHandler {
	return &LoginHandler{
		users:    users,
		sessions: sm,
		render:   render,
		log:      log,
	}
}

func (h *LoginHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login.html", PageData{
		Title: "Log in",
		Form:  LoginInput{},
	})
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := DecodeLogin(r)
	var formErr *FormError
	if errors.As(err, &formErr) {
		h.reject(w, r, in)
		return
	}
	if err != nil {
		http.Error(w, "bad form submission", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		h.reject(w, r, in)
		return
	}
	if err != nil {
		serverError(w, r, h.log, "look up user", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		h.reject(w, r, in)
		return
	}

	if err := h.sessions.SignIn(w, r, session.Identity{UserID: user.ID, Name: user.Name}); err != nil {
		serverError(w, r, h.log, "save session", err)
		return
	}

	logger.FromContext(r.Context(), h.log).Info("user logged in", "user_id", user.ID)
	flash(w, r, h.sessions, h.log, session.Success, "Login successful!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *LoginHandler) reject(w http.ResponseWriter, r *http.Request, in LoginInput) {
	flash(w, r, h.sessions, h.log, session.Danger, "Invalid email or password!")
	h.render.Render(w, r, http.StatusOK, "login.html", PageData{
		Title: "Log in",
		Form:  LoginInput{Email: in.Email},
	})
}
