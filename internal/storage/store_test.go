package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/jwebster45206/dayscene/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store := NewRedisStore(mr.Addr(), ttl, testLogger())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func setupTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "saves")
	store, err := NewFileStore(dir, save.FormatYAML, testLogger())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return store, dir
}

func setupTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saves.db"), testLogger())
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveStores(t *testing.T) {
	stores := map[string]func(t *testing.T) storage.SaveStore{
		"file": func(t *testing.T) storage.SaveStore {
			s, _ := setupTestFileStore(t)
			return s
		},
		"redis": func(t *testing.T) storage.SaveStore {
			s, _ := setupTestRedis(t, 0)
			return s
		},
		"sqlite": func(t *testing.T) storage.SaveStore {
			return setupTestSQLite(t)
		},
		"mock": func(t *testing.T) storage.SaveStore {
			return storage.NewMockStore()
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			testSaveStore(t, newStore(t))
		})
	}
}

func testSaveStore(t *testing.T, store storage.SaveStore) {
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	infos, err := store.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	_, err = store.GetSave(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteSave(ctx, "missing"), storage.ErrNotFound)

	require.NoError(t, store.PutSave(ctx, "slot_b", []byte("current_day: 0\n")))
	require.NoError(t, store.PutSave(ctx, "slot_a", []byte("first")))
	require.NoError(t, store.PutSave(ctx, "slot_a", []byte("second")))

	data, err := store.GetSave(ctx, "slot_a")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	infos, err = store.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "slot_a", infos[0].Slot)
	assert.Equal(t, len("second"), infos[0].Size)
	assert.False(t, infos[0].UpdatedAt.IsZero())
	assert.Equal(t, "slot_b", infos[1].Slot)

	require.NoError(t, store.DeleteSave(ctx, "slot_a"))
	_, err = store.GetSave(ctx, "slot_a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.Error(t, store.PutSave(ctx, "../escape", []byte("x")))
	assert.Error(t, store.PutSave(ctx, "", []byte("x")))
}

func TestRedisStore_KeysAndTTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.PutSave(ctx, "save", []byte("blob")))

	if !mr.Exists("save:save") {
		t.Fatal("Expected key save:save to exist")
	}
	assert.Equal(t, "blob", mr.HGet("save:save", "data"))
	assert.Equal(t, time.Hour, mr.TTL("save:save"))

	mr.FastForward(time.Hour + time.Second)
	_, err := store.GetSave(ctx, "save")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedisStore_PingFailure(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, store.Ping(ctx))
}

func TestFileStore_Layout(t *testing.T) {
	store, dir := setupTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSave(ctx, "save", []byte("blob")))

	data, err := os.ReadFile(filepath.Join(dir, "save.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)

	// Stray files are not reported as slots.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bad Name.yaml"), []byte("x"), 0o644))

	infos, err := store.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "save", infos[0].Slot)
}

func TestFileStore_FailedPutKeepsNoTempFiles(t *testing.T) {
	store, dir := setupTestFileStore(t)
	ctx := context.Background()

	// A non-empty directory in the slot's place makes the final rename fail.
	blocker := filepath.Join(dir, "blocked.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "inner"), 0o755))

	err := store.PutSave(ctx, "blocked", []byte("blob"))
	require.Error(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStore_JSONExtension(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, save.FormatJSON, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.PutSave(context.Background(), "save", []byte("{}")))
	_, err = os.Stat(filepath.Join(dir, "save.json"))
	assert.NoError(t, err)
}
