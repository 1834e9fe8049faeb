package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assignboard/internal/config"
	"assignboard/internal/database"
	"assignboard/internal/handler"
	"assignboard/internal/logger"
	"assignboard/internal/repository"
	"assignboard/internal/session"
	"assignboard/internal/templates"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer database.Close(db, log)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	store, closeStore, err := session.NewStore(cfg.Session, log)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	sm := session.NewManager(store, cfg.Session.Name)
	renderer, err := handler.NewRenderer(templates.FS, sm, log)
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.Deps{
		Users:       repository.NewUserRepository(db),
		Assignments: repository.NewAssignmentRepository(db),
		Sessions:    sm,
		Renderer:    renderer,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       time.Minute,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
