package middleware

import (
	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware chain
const (
	ContextKeyRequestID = "request_id"
	ContextKeyClientIP  = "client_ip"
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "role"
)

// GetUserID trả user id đã xác thực, "" nếu request chưa qua AuthMiddleware
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetRole returns the role loaded from the user record for this request
func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}
