package middleware

import (
	"context"

	"todo_api/internal/http/respond"

	"github.com/gin-gonic/gin"
)

// Readiness is satisfied by *bootstrap.Gate
type Readiness interface {
	EnsureReady(ctx context.Context) error
}

// RequireReady blocks each request until schema initialization has finished.
// A failed initialization is answered through the responder on every request.
func RequireReady(gate Readiness, resp *respond.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.EnsureReady(c.Request.Context()); err != nil {
			resp.Error(c, err)
			return
		}
		c.Next()
	}
}
