// Package cache holds the Redis-backed contact stats cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "phonebook:stats:"

type RedisStatsCache struct {
	cli *redis.Client
}

// NewRedisStatsCache connects to addr and pings it once.
func NewRedisStatsCache(ctx context.Context, addr, password string, db int) (*RedisStatsCache, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStatsCache{cli: r}, nil
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (c *RedisStatsCache) Get(ctx context.Context, userID int64) (*models.ContactStats, bool, error) {
	s, err := c.cli.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats models.ContactStats
	if err := json.Unmarshal(s, &stats); err != nil {
		return nil, false, fmt.Errorf("corrupt stats entry: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, userID int64, stats *models.ContactStats, ttl time.Duration) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.cli.Set(ctx, key(userID), b, ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userID int64) error {
	return c.cli.Del(ctx, key(userID)).Err()
}

// Ping reports whether Redis is reachable.
func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.cli.Ping(ctx).Err()
}

func (c *RedisStatsCache) Close() error {
	return c.cli.Close()
}
