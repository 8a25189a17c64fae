package middleware

import (
	"github.com/gin-gonic/gin"

	"gallery-backend/internal/shared/utils"
)

// ClientIPMiddleware resolve IP một lần cho cả chain (logger, auth, login log)
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}
