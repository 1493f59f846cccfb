package db

import (
	"context"
	"time"

	"todo_api/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for addr, or nil when addr is empty or the
// server does not answer a ping. Callers treat nil as "Redis disabled".
func ConnectRedis(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", "addr", addr, "error", err)
		_ = rdb.Close()
		return nil
	}

	logger.Info("redis connected", "addr", addr)
	return rdb
}
