package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firmtemplate/firm-api/internal/exitintent"
	apperrors "github.com/firmtemplate/firm-api/pkg/errors"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const redisBackend = "redis"

// RedisStore is the durable counterpart of browser localStorage
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ exitintent.Storage = (*RedisStore)(nil)

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisStore stores keys under prefix. A zero ttl keeps entries forever,
// which matches localStorage semantics; the week cooldown is the longest we read back.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + key
}

// GetItem returns the stored value for key
func (s *RedisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.StorageOperationTotal.WithLabelValues(redisBackend, "get", "miss").Inc()
		return "", false, nil
	}
	if err != nil {
		metrics.StorageOperationTotal.WithLabelValues(redisBackend, "get", "error").Inc()
		return "", false, apperrors.StorageError("redis get", err)
	}

	metrics.StorageOperationTotal.WithLabelValues(redisBackend, "get", "hit").Inc()
	return value, true, nil
}

// SetItem stores value under key
func (s *RedisStore) SetItem(ctx context.Context, key, value string) error {
	err := s.client.Set(ctx, s.key(key), value, s.ttl).Err()
	metrics.StorageOperationTotal.WithLabelValues(redisBackend, "set", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return apperrors.StorageError("redis set", err)
	}
	return nil
}

// Ping checks connectivity for health reporting
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
