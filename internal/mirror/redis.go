package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds each remote call so a slow Redis cannot back up
// the worker indefinitely.
const redisOpTimeout = 5 * time.Second

// RedisBackend stores each collection as a hash keyed by
// "vms:<collection>", with document ids as hash fields.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a Redis mirror backend from an address and
// optional password.
func NewRedisBackend(addr, password string, db int) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisBackend{client: client}, nil
}

func collectionKey(collection string) string {
	return "vms:" + collection
}

// GetAll returns all documents of a collection.
func (b *RedisBackend) GetAll(collection string) ([][]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	values, err := b.client.HGetAll(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	docs := make([][]byte, 0, len(values))
	for _, v := range values {
		docs = append(docs, []byte(v))
	}
	return docs, nil
}

// Set writes a full document.
func (b *RedisBackend) Set(collection, id string, doc []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := b.client.HSet(ctx, collectionKey(collection), id, doc).Err(); err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update overwrites the stored document. Redis hash fields have no merge
// operation; callers always enqueue the full record, so overwrite and
// merge coincide.
func (b *RedisBackend) Update(collection, id string, partial []byte) error {
	return b.Set(collection, id, partial)
}

// DeleteAll removes a collection.
func (b *RedisBackend) DeleteAll(collection string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := b.client.Del(ctx, collectionKey(collection)).Err(); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

// Close releases the underlying client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
