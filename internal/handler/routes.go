package handler

import (
	"log/slog"
	"net/http"

	"assignboard/internal/middleware"
	"assignboard/internal/session"
)

type Deps struct {
	Users       UserStore
	Assignments AssignmentStore
	Sessions    *session.Manager
	Renderer    *Renderer
	Logger      *slog.Logger
}

// NewRouter wires every route. Assignment routes need a signed-in session.
func NewRouter(d Deps) http.Handler {
	index := NewIndexHandler()
	registration := NewRegistrationHandler(d.Users, d.Sessions, d.Renderer, d.Logger)
	login := NewLoginHandler(d.Users, d.Sessions, d.Renderer, d.Logger)
	logout := NewLogoutHandler(d.Sessions, d.Logger)
	dashboard := NewDashboardHandler(d.Assignments, d.Sessions, d.Renderer, d.Logger)
	assignments := NewAssignmentHandler(d.Assignments, d.Sessions, d.Renderer, d.Logger)

	requireAuth := middleware.RequireAuth(d.Sessions, d.Logger)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", index.Home)
	mux.HandleFunc("GET /signup", registration.SignupPage)
	mux.HandleFunc("POST /signup", registration.Signup)
	mux.HandleFunc("GET /login", login.LoginPage)
	mux.HandleFunc("POST /login", login.Login)
	mux.HandleFunc("GET /logout", logout.Logout)

	mux.Handle("GET /dashboard", protected(dashboard.Dashboard))
	mux.Handle("POST /dashboard", protected(dashboard.Create))
	mux.Handle("GET /update/{id}", protected(assignments.UpdatePage))
	mux.Handle("POST /update/{id}", protected(assignments.Update))
	mux.Handle("POST /delete/{id}", protected(assignments.Delete))

	return middleware.RequestLogger(d.Logger)(middleware.Recover(d.Logger)(mux))
}
