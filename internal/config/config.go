package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string
	Database  DBConfig
	Session   SessionConfig
}

type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type SessionConfig struct {
	Backend  string
	Name     string
	HashKey  string
	BlockKey string
	BoltPath string
	MaxAge   int
	Secure   bool
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := &envReader{}
	cfg := Config{
		Port:      env.getInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Database: DBConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "assignboard"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    env.getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    env.getInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: env.getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     env.getBool("DB_AUTO_MIGRATE", true),
		},
		Session: SessionConfig{
			Backend:  getEnv("SESSION_BACKEND", "bolt"),
			Name:     getEnv("SESSION_NAME", "app-session"),
			HashKey:  getEnv("SESSION_HASH_KEY", ""),
			BlockKey: getEnv("SESSION_BLOCK_KEY", ""),
			BoltPath: getEnv("SESSION_BOLT_PATH", "data/sessions.db"),
			MaxAge:   env.getInt("SESSION_MAX_AGE", 86400),
			Secure:   env.getBool("SESSION_SECURE", false),
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want text or json", c.LogFormat)
	}
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want postgres or pgx", c.Database.Driver)
	}
	switch c.Session.Backend {
	case "bolt", "cookie":
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q: want bolt or cookie", c.Session.Backend)
	}
	if c.Session.Name == "" {
		return errors.New("SESSION_NAME must not be empty")
	}
	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("invalid SESSION_MAX_AGE %d", c.Session.MaxAge)
	}
	// AES wants 16, 24 or 32 byte keys.
	switch len(c.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("SESSION_BLOCK_KEY must be 16, 24 or 32 bytes, got %d", len(c.Session.BlockKey))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DSN returns the key=value connection string understood by lib/pq and pgx.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// envReader parses typed values and collects every malformed one.
type envReader struct {
	errs []error
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
}

func (e *envReader) getInt(key string, defaultValue int) int {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return defaultValue
	}
	return n
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return defaultValue
	}
	return b
}

func (e *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return defaultValue
	}
	return d
}
