package middleware

import (
	"log/slog"
	"net/http"

	"assignboard/internal/logger"
	"assignboard/internal/session"
)

// RequireAuth sends visitors without a signed-in session to the login page.
func RequireAuth(sm *session.Manager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := sm.Identity(r); ok {
				next.ServeHTTP(w, r)
				return
			}

			if err := sm.AddFlash(w, r, session.Warning, "Please log in first!"); err != nil {
				logger.FromContext(r.Context(), log).Error("save flash", "error", err)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		})
	}
}
