package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redis key pattern: whb:{key}
const keyRedisRecord = "whb:%s"

// keeps records in redis so several clients can share one profile
type RedisStore struct {
	client redis.Cmdable
	closer func() error
}

// connects to redis from a redis:// URL and verifies the connection
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, closer: client.Close}, nil
}

// wraps an existing client; the caller keeps ownership of it
func NewRedisStoreFromClient(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, fmt.Sprintf(keyRedisRecord, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}

	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, fmt.Sprintf(keyRedisRecord, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, fmt.Sprintf(keyRedisRecord, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", key, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer()
}
