package session

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"assignboard/internal/config"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewStore builds the configured session backend. The returned closer
// releases the backend's resources.
func NewStore(cfg config.SessionConfig, log *slog.Logger) (sessions.Store, io.Closer, error) {
	hashKey := []byte(cfg.HashKey)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
		log.Warn("SESSION_HASH_KEY not set, using a random key; sessions will not survive a restart")
	}
	keyPairs := [][]byte{hashKey}
	if cfg.BlockKey != "" {
		keyPairs = append(keyPairs, []byte(cfg.BlockKey))
	}

	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	switch cfg.Backend {
	case "cookie":
		cs := sessions.NewCookieStore(keyPairs...)
		cs.Options = opts
		cs.MaxAge(cfg.MaxAge)
		log.Info("session store ready", "backend", "cookie")
		return cs, closerFunc(func() error { return nil }), nil

	case "bolt":
		db, err := OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		bs, err := NewBoltStore(db, keyPairs...)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		bs.Options = opts
		bs.MaxAge(cfg.MaxAge)

		purged, err := bs.PurgeExpired(time.Now())
		if err != nil {
			log.Warn("purge expired sessions", "error", err)
		}
		log.Info("session store ready", "backend", "bolt", "path", cfg.BoltPath, "purged", purged)
		return bs, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
