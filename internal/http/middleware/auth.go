package middleware

import (
	"net/http"
	"strings"

	"todo_api/internal/auth"

	"github.com/gin-gonic/gin"
)

const SubjectKey = "subject"

// JWT requires a valid bearer token. A nil issuer turns the check off.
func JWT(iss *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if iss == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		sub, err := iss.Parse(token)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		c.Set(SubjectKey, sub)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   http.StatusText(http.StatusUnauthorized),
		"message": msg,
	})
}
