package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jwebster45206/dayscene/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "save:"

// RedisStore implements storage.SaveStore with one Redis hash per slot
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStore implements SaveStore interface
var _ storage.SaveStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store. A zero ttl keeps saves forever.
func NewRedisStore(redisURL string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
		ttl:    ttl,
	}
}

// Health and lifecycle methods

func (r *RedisStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Save slot operations

func (r *RedisStore) PutSave(ctx context.Context, slot string, data []byte) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}

	key := redisKeyPrefix + slot
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "data", data, "updated_at", time.Now().UTC().Format(time.RFC3339Nano))
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save", "slot", slot, "error", err)
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}

	r.logger.Debug("Saved", "slot", slot, "bytes", len(data))
	return nil
}

func (r *RedisStore) GetSave(ctx context.Context, slot string) ([]byte, error) {
	data, err := r.client.HGet(ctx, redisKeyPrefix+slot, "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
		}
		r.logger.Error("Failed to load save", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to load %s: %w", slot, err)
	}
	return data, nil
}

func (r *RedisStore) DeleteSave(ctx context.Context, slot string) error {
	deleted, err := r.client.Del(ctx, redisKeyPrefix+slot).Result()
	if err != nil {
		r.logger.Error("Failed to delete save", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete %s: %w", slot, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
	}
	return nil
}

func (r *RedisStore) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan saves: %w", err)
	}

	infos := make([]storage.SaveInfo, 0, len(keys))
	for _, key := range keys {
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if len(fields) == 0 {
			continue // expired between SCAN and HGETALL
		}

		info := storage.SaveInfo{
			Slot: strings.TrimPrefix(key, redisKeyPrefix),
			Size: len(fields["data"]),
		}
		if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
			info.UpdatedAt = ts
		}
		infos = append(infos, info)
	}

	slices.SortFunc(infos, func(a, b storage.SaveInfo) int { return strings.Compare(a.Slot, b.Slot) })
	return infos, nil
}
