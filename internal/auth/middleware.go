package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests without the expected API key before any handler runs.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.Valid(c.GetHeader(s.headerName)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
