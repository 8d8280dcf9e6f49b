package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"univote/pkg/platform/sentinel"
)

// Redis stores a collection as one hash of key -> document plus a list that
// records insertion order for List.
type Redis struct {
	client *redis.Client
	name   string
}

// NewRedis constructs a Redis-backed collection.
func NewRedis(client *redis.Client, name string) *Redis {
	return &Redis{client: client, name: name}
}

func (r *Redis) hashKey() string  { return "collection:" + r.name }
func (r *Redis) orderKey() string { return "collection:" + r.name + ":order" }

func (r *Redis) List(ctx context.Context) ([][]byte, error) {
	keys, err := r.client.LRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := r.client.HMGet(ctx, r.hashKey(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	docs := make([][]byte, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Order entry without a hash field; skip rather than fail the scan.
			continue
		}
		docs = append(docs, []byte(s))
	}
	return docs, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.HGet(ctx, r.hashKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", r.name, key, err)
	}
	return []byte(val), nil
}

func (r *Redis) Put(ctx context.Context, key string, doc []byte) error {
	added, err := r.client.HSet(ctx, r.hashKey(), key, doc).Result()
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", r.name, key, err)
	}
	if added == 1 {
		if err := r.client.RPush(ctx, r.orderKey(), key).Err(); err != nil {
			return fmt.Errorf("put %s/%s: order: %w", r.name, key, err)
		}
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	removed, err := r.client.HDel(ctx, r.hashKey(), key).Result()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", r.name, key, err)
	}
	if removed == 0 {
		return sentinel.ErrNotFound
	}
	if err := r.client.LRem(ctx, r.orderKey(), 0, key).Err(); err != nil {
		return fmt.Errorf("delete %s/%s: order: %w", r.name, key, err)
	}
	return nil
}
