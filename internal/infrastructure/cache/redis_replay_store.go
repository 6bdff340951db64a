package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rentfolio/backend/internal/domain/shared"
)

// RedisReplayStore implements ReplayStore using Redis. Suitable for
// deployments where several instances receive provider notifications and
// need to share the fast-path replay state.
type RedisReplayStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReplayStore creates a new Redis-backed replay store
func NewRedisReplayStore(cfg RedisConfig) (*RedisReplayStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReplayStore{
		client:    client,
		keyPrefix: "notification:replay:",
	}, nil
}

// NewRedisReplayStoreWithClient creates a store with an existing Redis
// client; useful for testing or when sharing a client across components
func NewRedisReplayStoreWithClient(client *redis.Client, keyPrefix string) *RedisReplayStore {
	if keyPrefix == "" {
		keyPrefix = "notification:replay:"
	}
	return &RedisReplayStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed marks a key as processed with a TTL using SETNX, so only
// one delivery can win the mark
func (s *RedisReplayStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark notification as processed: %w", err)
	}
	return result, nil
}

// Forget removes a key so a later delivery can be processed again
func (s *RedisReplayStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release replay key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisReplayStore) Close() error {
	return s.client.Close()
}

var _ shared.ReplayStore = (*RedisReplayStore)(nil)
