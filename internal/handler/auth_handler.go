package handler

import (
	"log/slog"
	"net/http"

	"assignboard/internal/session"
)

type LogoutHandler struct {
	sessions *session.Manager
	log      *slog.Logger
}

func NewLogoutHandler(sm *session.Manager, log *slog.Logger) *LogoutHandler {
	return &LogoutHandler{sessions: sm, log: log}
}

// Logout drops the identity from the session; the session itself stays so
// the login page can show the goodbye flash.
func (h *LogoutHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		serverError(w, r, h.log, "clear session", err)
		return
	}
	flash(w, r, h.sessions, h.log, session.Info, "You have logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
