package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/response"
	"gallery-backend/pkg/logger"
)

// Recovery chuyển panic thành Internal error (500, không lộ chi tiết)
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err := fmt.Errorf("%v", rec)
			logger.ErrorWithFields("Panic recovered", err, map[string]interface{}{
				"request_id": c.GetString(ContextKeyRequestID),
				"route":      c.FullPath(),
				"stack":      string(debug.Stack()),
			})
			response.FromError(c, apperror.Internal("panic recovered", err))
		}()

		c.Next()
	}
}
