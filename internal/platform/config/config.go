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

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultEnvironment    = "production"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultRequestTimeout = 20 * time.Second
	defaultMaxOpenConns   = 20
	defaultCookieName     = "active_shop"
	defaultSessionMaxAge  = 12 * time.Hour
	defaultCurrency       = "ZMW"
	defaultLogLevel       = "info"

	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config captures runtime configuration grouped by concern.
type Config struct {
	Environment string
	Currency    string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Session     SessionConfig
	Log         LogConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// DatabaseConfig selects the storage driver and its connection parameters.
type DatabaseConfig struct {
	Driver       string
	URL          string
	MaxOpenConns int
}

// AuthConfig holds the bearer token verification secret.
type AuthConfig struct {
	JWTSecret string
}

// SessionConfig controls the active-shop cookie.
type SessionConfig struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte
	Secure     bool
	MaxAge     time.Duration
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string
}

// IsLocal reports whether the service runs in a developer environment.
func (c Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// ValidationError lists configuration keys that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.Fields, ", "))
}

// Load reads envFile (default .env) when it exists and builds Config from the process environment.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds Config from an arbitrary key lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	var invalid []string

	cfg := Config{
		Environment: strings.ToLower(get("APP_ENV", defaultEnvironment)),
		Currency:    strings.ToUpper(get("DEFAULT_CURRENCY", defaultCurrency)),
		Server: ServerConfig{
			Port: get("APP_PORT", defaultPort),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(get("STORAGE_DRIVER", StoragePostgres)),
			URL:    get("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: get("JWT_SECRET", ""),
		},
		Session: SessionConfig{
			CookieName: get("SESSION_COOKIE_NAME", defaultCookieName),
			HashKey:    []byte(get("SESSION_HASH_KEY", "")),
			BlockKey:   []byte(get("SESSION_BLOCK_KEY", "")),
		},
		Log: LogConfig{
			Level: get("LOG_LEVEL", defaultLogLevel),
		},
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", defaultReadTimeout, &cfg.Server.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.Server.WriteTimeout},
		{"HTTP_REQUEST_TIMEOUT", defaultRequestTimeout, &cfg.Server.RequestTimeout},
		{"SESSION_MAX_AGE", defaultSessionMaxAge, &cfg.Session.MaxAge},
	}
	for _, d := range durations {
		*d.dst = d.fallback
		raw := get(d.key, "")
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			invalid = append(invalid, d.key)
			continue
		}
		*d.dst = parsed
	}

	cfg.Database.MaxOpenConns = defaultMaxOpenConns
	if raw := get("DB_MAX_OPEN_CONNS", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			invalid = append(invalid, "DB_MAX_OPEN_CONNS")
		} else {
			cfg.Database.MaxOpenConns = n
		}
	}

	cfg.Session.Secure = !cfg.IsLocal()
	if raw := get("SESSION_COOKIE_SECURE", ""); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, "SESSION_COOKIE_SECURE")
		} else {
			cfg.Session.Secure = secure
		}
	}

	switch cfg.Database.Driver {
	case StoragePostgres:
		if cfg.Database.URL == "" {
			invalid = append(invalid, "DATABASE_URL")
		}
	case StorageMemory:
	default:
		invalid = append(invalid, "STORAGE_DRIVER")
	}

	if cfg.Auth.JWTSecret == "" {
		invalid = append(invalid, "JWT_SECRET")
	}
	if len(cfg.Session.HashKey) < 32 {
		invalid = append(invalid, "SESSION_HASH_KEY")
	}
	if n := len(cfg.Session.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		invalid = append(invalid, "SESSION_BLOCK_KEY")
	}

	if len(invalid) > 0 {
		return Config{}, &ValidationError{Fields: invalid}
	}
	return cfg, nil
}
