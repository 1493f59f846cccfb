package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"todo_api/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisTodoCacheIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	defer rdb.Close()

	ctx := context.Background()
	c := NewRedisTodoCache(rdb, time.Minute)

	desc := "two litres"
	now := time.Now().UTC().Truncate(time.Microsecond)
	td := &domain.Todo{ID: uuid.New(), Title: "milk", Description: &desc, CreatedAt: now, UpdatedAt: now}

	miss, err := c.Get(ctx, td.ID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.Set(ctx, td))
	got, err := c.Get(ctx, td.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, td.Title, got.Title)
	assert.Equal(t, desc, *got.Description)
	assert.True(t, td.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, c.Delete(ctx, td.ID))
	got, err = c.Get(ctx, td.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
