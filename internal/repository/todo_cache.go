package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"todo_api/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTodoCache keeps single todos keyed by id
type RedisTodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTodoCache(rdb *redis.Client, ttl time.Duration) *RedisTodoCache {
	return &RedisTodoCache{rdb: rdb, ttl: ttl}
}

func todoKey(id uuid.UUID) string {
	return "todo:" + id.String()
}

// Get returns (nil, nil) on a cache miss
func (c *RedisTodoCache) Get(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	val, err := c.rdb.Get(ctx, todoKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var t domain.Todo
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *RedisTodoCache) Set(ctx context.Context, t *domain.Todo) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, todoKey(t.ID), data, c.ttl).Err()
}

func (c *RedisTodoCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, todoKey(id)).Err()
}
