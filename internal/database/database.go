package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"assignboard/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// Open connects with the configured driver ("postgres" is lib/pq, "pgx" is
// the pgx stdlib adapter) and verifies the connection.
func Open(ctx context.Context, cfg config.DBConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected",
		"driver", cfg.Driver,
		"host", cfg.Host,
		"port", cfg.Port,
		"dbname", cfg.DBName,
	)
	return db, nil
}

func Close(db *sql.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("close database", "error", err)
		return
	}
	log.Info("database connection closed")
}
