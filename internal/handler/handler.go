package handler

import (
	"context"
	"log/slog"
	"net/http"

	"assignboard/internal/entity"
	"assignboard/internal/logger"
	"assignboard/internal/session"
)

// UserStore is the slice of the user repository the handlers need.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}

type AssignmentStore interface {
	Create(ctx context.Context, title, description string) (entity.Assignment, error)
	List(ctx context.Context) ([]entity.Assignment, error)
	GetByID(ctx context.Context, id int64) (entity.Assignment, error)
	Update(ctx context.Context, id int64, title, description string) error
	Delete(ctx context.Context, id int64) error
}

func serverError(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	logger.FromContext(r.Context(), log).Error(msg, "error", err, "path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// flash queues a notice; a failure to save it is logged, not fatal.
func flash(w http.ResponseWriter, r *http.Request, sm *session.Manager, log *slog.Logger, category, message string) {
	if err := sm.AddFlash(w, r, category, message); err != nil {
		logger.FromContext(r.Context(), log).Error("save flash", "error", err)
	}
}
