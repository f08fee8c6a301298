package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares the summary between API instances and the worker
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// GetSummary implements Cache
func (r *RedisCache) GetSummary(ctx context.Context) (*Summary, bool, error) {
	raw, err := r.client.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &summary, true, nil
}

// SetSummary implements Cache
func (r *RedisCache) SetSummary(ctx context.Context, summary *Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := r.client.Set(ctx, summaryKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return nil
}

// Invalidate implements Cache
func (r *RedisCache) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, summaryKey).Err()
}

// Close closes the client
func (r *RedisCache) Close() error {
	return r.client.Close()
}
