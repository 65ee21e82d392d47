// Package cache provides a Redis read-through cache for the temple catalog.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
)

const keyPrefix = "temples:"

// TempleRepository wraps another TempleRepository and caches reads. Redis
// failures are logged and fall through to the wrapped repository.
type TempleRepository struct {
	next repository.TempleRepository
	rdb  redis.UniversalClient
	ttl  time.Duration
	log  logging.Logger
}

func NewTempleRepository(next repository.TempleRepository, rdb redis.UniversalClient, ttl time.Duration, log logging.Logger) *TempleRepository {
	return &TempleRepository{next: next, rdb: rdb, ttl: ttl, log: log}
}

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (c *TempleRepository) CreateMany(ctx context.Context, temples []*domain.Temple) error {
	if err := c.next.CreateMany(ctx, temples); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *TempleRepository) Count(ctx context.Context) (int64, error) {
	return c.next.Count(ctx)
}

func (c *TempleRepository) List(ctx context.Context, filter domain.TempleFilter, limit int) ([]*domain.Temple, error) {
	key := listKey(filter, limit)

	var temples []*domain.Temple
	if c.get(ctx, key, &temples) {
		return temples, nil
	}

	temples, err := c.next.List(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, temples)
	return temples, nil
}

func (c *TempleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error) {
	key := keyPrefix + "id:" + id.String()

	var temple domain.Temple
	if c.get(ctx, key, &temple) {
		return &temple, nil
	}

	found, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, found)
	return found, nil
}

func (c *TempleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Temple, error) {
	return c.next.GetByIDs(ctx, ids)
}

func (c *TempleRepository) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn(ctx, "catalog cache read failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn(ctx, "catalog cache entry undecodable", "key", key, "err", err)
		return false
	}
	return true
}

func (c *TempleRepository) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "catalog cache write failed", "key", key, "err", err)
	}
}

func (c *TempleRepository) invalidate(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn(ctx, "catalog cache scan failed", "err", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn(ctx, "catalog cache invalidation failed", "err", err)
	}
}

func listKey(filter domain.TempleFilter, limit int) string {
	q := url.Values{}
	q.Set("state", filter.State)
	q.Set("deity", filter.Deity)
	q.Set("limit", fmt.Sprint(limit))
	return keyPrefix + "list:" + q.Encode()
}
