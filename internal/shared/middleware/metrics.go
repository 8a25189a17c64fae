package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver is satisfied by *metrics.Metrics
type HTTPObserver interface {
	ObserveHTTP(method, route, status string, took time.Duration)
}

// Metrics ghi nhận request theo route template (c.FullPath), không theo raw path
func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveHTTP(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
