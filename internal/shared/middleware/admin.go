package middleware

import (
	"github.com/gin-gonic/gin"

	"gallery-backend/internal/shared/response"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role (must run after AuthMiddleware)
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}

		c.Next()
	}
}
