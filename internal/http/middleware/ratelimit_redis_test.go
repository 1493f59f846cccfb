package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", h, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func hit(r http.Handler) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w.Code
}

func TestSimpleRateLimitBlocksAfterMax(t *testing.T) {
	r := limitedRouter(SimpleRateLimit(2, time.Minute))

	assert.Equal(t, 200, hit(r))
	assert.Equal(t, 200, hit(r))
	assert.Equal(t, 429, hit(r))
}

func TestSimpleRateLimitWindowResets(t *testing.T) {
	r := limitedRouter(SimpleRateLimit(1, 50*time.Millisecond))

	assert.Equal(t, 200, hit(r))
	assert.Equal(t, 429, hit(r))
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 200, hit(r))
}

func TestRateLimitDisabled(t *testing.T) {
	r := limitedRouter(RateLimit(nil, 0, time.Minute))
	for i := 0; i < 5; i++ {
		assert.Equal(t, 200, hit(r))
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	// odd window so parallel runs don't share keys with the default limiter
	w := time.Duration(2+uuid.New().ID()%50) * time.Second
	max := 2

	srv := httptest.NewServer(limitedRouter(RateLimit(rdb, max, w)))
	defer srv.Close()

	client := &http.Client{}
	for i := 0; i < max; i++ {
		res, err := client.Get(srv.URL + "/test")
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, 200, res.StatusCode)
	}

	res, err := client.Get(srv.URL + "/test")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 429, res.StatusCode)
	assert.Equal(t, "0", res.Header.Get("X-RateLimit-Remaining"))
}
