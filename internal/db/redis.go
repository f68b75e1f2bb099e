package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache stores JSON values in redis. A disabled cache misses on every read and drops writes.
type Cache struct {
	rds    *redis.Client
	prefix string
	lg     zerolog.Logger
}

func NewCache(rc *RedisConfig) *Cache {
	c := &Cache{
		prefix: rc.prefix,
		lg:     zerolog.New(os.Stdout).With().Str("Module", "Cache").Timestamp().Logger(),
	}
	if !rc.enabled {
		c.lg.Info().Msg("redis cache disabled")
		return c
	}

	c.rds = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", rc.ip, rc.port),
		Password: rc.password,
		DB:       rc.db, // memo. DB는 0번 하나만 사용
	})
	return c
}

func (c *Cache) Enabled() bool {
	return c.rds != nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rds.Ping(ctx).Err()
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.rds.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal 실패. %w", err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal 실패. %w", err)
	}
	return c.rds.Set(ctx, c.key(key), data, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rds.Del(ctx, full...).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rds.Close()
}
