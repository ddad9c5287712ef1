package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Compile-time check that RedisBackend implements Backend.
var _ Backend = (*RedisBackend)(nil)

// RedisBackend stores the document as a single Redis string value.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend creates a RedisBackend storing the document under key.
func NewRedisBackend(client *redis.Client, key string) (*RedisBackend, error) {
	if client == nil {
		return nil, errors.New("storage: redis client is required")
	}
	if key == "" {
		return nil, errors.New("storage: redis key is required")
	}
	return &RedisBackend{client: client, key: key}, nil
}

// Location implements Backend.
func (b *RedisBackend) Location() string {
	return fmt.Sprintf("redis://%s/%s", b.client.Options().Addr, b.key)
}

// Read returns the stored document.
func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, b.Location())
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Write replaces the stored document. The key never expires.
func (b *RedisBackend) Write(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
