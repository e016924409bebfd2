package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps image URLs in Redis under prefixed keys so several
// deployments can share one instance.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis at url and verifies the connection.
// Entries expire after ttl; a zero ttl keeps them forever.
func NewRedisStore(url, prefix string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (r *RedisStore) key(mediaID int) string {
	return fmt.Sprintf("%simage:%d", r.prefix, mediaID)
}

func (r *RedisStore) GetImageURL(ctx context.Context, mediaID int) (string, error) {
	url, err := r.client.Get(ctx, r.key(mediaID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return url, nil
}

func (r *RedisStore) SetImageURL(ctx context.Context, mediaID int, url string) error {
	if err := r.client.Set(ctx, r.key(mediaID), url, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"image:*", 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error deleting keys: %w", err)
		}
	}

	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
