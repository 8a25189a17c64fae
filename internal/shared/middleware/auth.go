package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/response"
	"gallery-backend/pkg/jwt"
	"gallery-backend/pkg/logger"
)

// TokenValidator is satisfied by *jwt.Manager
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AccountChecker loads the current role and active flag of a user.
// Token claims are not trusted for either.
type AccountChecker interface {
	AccountStatus(ctx context.Context, userID string) (role string, active bool, err error)
}

// AuthMiddleware - Middleware xác thực JWT token rồi load user từ DB
func AuthMiddleware(tokens TokenValidator, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify và parse JWT
		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Debug("Rejected token", map[string]interface{}{
				"request_id": c.GetString(ContextKeyRequestID),
				"error":      err.Error(),
			})
			response.Unauthorized(c, "invalid token")
			return
		}

		// 4. User phải còn tồn tại và active
		role, active, err := accounts.AccountStatus(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				response.Unauthorized(c, "user no longer exists")
				return
			}
			response.FromError(c, err)
			return
		}
		if !active {
			response.FromError(c, apperror.PermissionDenied("ACCOUNT_INACTIVE", "account is deactivated"))
			return
		}

		// 5. Set userID + role vào context
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, role)

		c.Next()
	}
}
