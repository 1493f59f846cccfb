package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is per process; it backs RateLimit when Redis is not configured.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientInfo)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		ci, ok := clients[ip]
		if !ok || now.Sub(ci.last) > window {
			if len(clients) > 10000 {
				evictStale(clients, now, window)
			}
			clients[ip] = &clientInfo{last: now, count: 1}
			mu.Unlock()
			RLRequests.WithLabelValues(routeLabel(c)).Inc()
			c.Next()
			return
		}

		ci.count++
		count := ci.count
		mu.Unlock()

		if count > maxRequests {
			RLBlocked.WithLabelValues(routeLabel(c)).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   http.StatusText(http.StatusTooManyRequests),
				"message": "rate limit exceeded",
			})
			return
		}

		RLRequests.WithLabelValues(routeLabel(c)).Inc()
		c.Next()
	}
}

func evictStale(clients map[string]*clientInfo, now time.Time, window time.Duration) {
	for ip, ci := range clients {
		if now.Sub(ci.last) > window {
			delete(clients, ip)
		}
	}
}
