package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackIP = "127.0.0.1"

// ExtractClientIP: hop hợp lệ đầu tiên của X-Forwarded-For, rồi X-Real-IP,
// rồi RemoteAddr
func ExtractClientIP(c *gin.Context) string {
	for _, hop := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := normalizeIP(hop); ip != "" {
			return ip
		}
	}
	if ip := normalizeIP(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	host := c.Request.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if ip := normalizeIP(host); ip != "" {
		return ip
	}
	return fallbackIP
}

// normalizeIP trả "" nếu s không phải IP
func normalizeIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
