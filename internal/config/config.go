package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port         string     `envconfig:"PORT" default:"8080"`
	Environment  string     `envconfig:"ENVIRONMENT" default:"development"`
	LogLevelName string     `envconfig:"LOG_LEVEL" default:"info"`
	LogLevel     slog.Level `ignored:"true"`

	// Content
	ContentDir    string `envconfig:"CONTENT_DIR" default:"./data"`
	ContentStrict bool   `envconfig:"CONTENT_STRICT" default:"false"`

	// Saves
	SaveBackend    string        `envconfig:"SAVE_BACKEND" default:"file"`
	SaveFormatName string        `envconfig:"SAVE_FORMAT" default:"yaml"`
	SaveFormat     save.Format   `ignored:"true"`
	SaveDir        string        `envconfig:"SAVE_DIR" default:".saves"`
	RedisURL       string        `envconfig:"REDIS_URL" default:"localhost:6379"`
	SaveTTL        time.Duration `envconfig:"SAVE_TTL" default:"0s"`
	SQLitePath     string        `envconfig:"SQLITE_PATH" default:".saves/saves.db"`

	// Events; empty disables publishing and the events endpoint
	EventsRedisURL string `envconfig:"EVENTS_REDIS_URL" default:""`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	format, err := save.ParseFormat(cfg.SaveFormatName)
	if err != nil {
		return nil, fmt.Errorf("invalid SAVE_FORMAT: %w", err)
	}
	cfg.SaveFormat = format

	cfg.SaveBackend = strings.ToLower(cfg.SaveBackend)
	switch cfg.SaveBackend {
	case BackendFile, BackendRedis, BackendSQLite:
	default:
		return nil, fmt.Errorf("invalid SAVE_BACKEND %q: want file, redis or sqlite", cfg.SaveBackend)
	}
	if cfg.SaveTTL < 0 {
		return nil, fmt.Errorf("invalid SAVE_TTL %s: must not be negative", cfg.SaveTTL)
	}

	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
