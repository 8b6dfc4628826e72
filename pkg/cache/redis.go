package cache

import (
	"context"
	"time"

	"notealog/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notealog:categorize:"

// RedisMemo shares entries between server instances. Redis errors degrade to
// cache misses.
type RedisMemo struct {
	rdb *redis.Client
	ttl time.Duration
	log logger.ILogger
}

func NewRedisMemo(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *RedisMemo {
	return &RedisMemo{rdb: rdb, ttl: ttl, log: log}
}

func (m *RedisMemo) Get(ctx context.Context, key string) (string, bool) {
	val, err := m.rdb.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		m.log.Warn("CACHE", "redis get failed", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	return val, true
}

func (m *RedisMemo) Set(ctx context.Context, key, value string) {
	if err := m.rdb.Set(ctx, keyPrefix+key, value, m.ttl).Err(); err != nil {
		m.log.Warn("CACHE", "redis set failed", map[string]interface{}{"error": err.Error()})
	}
}
