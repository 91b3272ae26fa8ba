package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "./data", cfg.ContentDir)
	assert.False(t, cfg.ContentStrict)
	assert.Equal(t, BackendFile, cfg.SaveBackend)
	assert.Equal(t, save.FormatYAML, cfg.SaveFormat)
	assert.Equal(t, ".saves", cfg.SaveDir)
	assert.Equal(t, time.Duration(0), cfg.SaveTTL)
	assert.Empty(t, cfg.EventsRedisURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("CONTENT_DIR", "/srv/content")
	t.Setenv("CONTENT_STRICT", "true")
	t.Setenv("SAVE_BACKEND", "Redis")
	t.Setenv("SAVE_FORMAT", "json")
	t.Setenv("SAVE_TTL", "24h")
	t.Setenv("EVENTS_REDIS_URL", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "/srv/content", cfg.ContentDir)
	assert.True(t, cfg.ContentStrict)
	assert.Equal(t, BackendRedis, cfg.SaveBackend)
	assert.Equal(t, save.FormatJSON, cfg.SaveFormat)
	assert.Equal(t, 24*time.Hour, cfg.SaveTTL)
	assert.Equal(t, "redis:6379", cfg.EventsRedisURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"SAVE_BACKEND":   "postgres",
		"SAVE_FORMAT":    "xml",
		"SAVE_TTL":       "-1h",
		"CONTENT_STRICT": "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewSaveStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	configs := map[string]*Config{
		BackendFile:   {SaveBackend: BackendFile, SaveDir: filepath.Join(dir, "files"), SaveFormat: save.FormatYAML},
		BackendSQLite: {SaveBackend: BackendSQLite, SQLitePath: filepath.Join(dir, "db", "saves.db")},
		BackendRedis:  {SaveBackend: BackendRedis, RedisURL: mr.Addr()},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			store, err := NewSaveStore(ctx, cfg, testLogger())
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Ping(ctx))
			require.NoError(t, store.PutSave(ctx, "save", []byte("blob")))
			data, err := store.GetSave(ctx, "save")
			require.NoError(t, err)
			assert.Equal(t, []byte("blob"), data)
		})
	}

	_, err = NewSaveStore(ctx, &Config{SaveBackend: "tape"}, testLogger())
	assert.Error(t, err)
}

func TestNewEventBroadcaster(t *testing.T) {
	ctx := context.Background()

	b, err := NewEventBroadcaster(ctx, &Config{}, testLogger())
	require.NoError(t, err)
	assert.Nil(t, b, "events are disabled without EVENTS_REDIS_URL")

	mr := miniredis.RunT(t)
	b, err = NewEventBroadcaster(ctx, &Config{EventsRedisURL: mr.Addr()}, testLogger())
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NoError(t, b.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = NewEventBroadcaster(ctx, &Config{EventsRedisURL: addr}, testLogger())
	assert.Error(t, err)
}
