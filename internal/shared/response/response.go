package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gallery-backend/internal/shared/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope and aborts the handler chain
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError map application error sang HTTP response qua bảng kind → status
// Internal errors are logged and never expose their cause to the client
func FromError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal("internal server error", err)
	}

	status := apperror.HTTPStatus(appErr.Kind)
	code := appErr.Code
	if code == "" {
		code = appErr.Kind.String()
	}

	switch appErr.Kind {
	case apperror.KindInternal:
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Internal error")
		Error(c, status, code, "Internal server error", nil)
		return
	case apperror.KindValidation:
		Error(c, status, code, appErr.Message, appErr.Fields)
		return
	case apperror.KindStorageOperationFailed:
		log.Warn().
			Err(err).
			Str("provider", appErr.Provider).
			Str("remote_id", appErr.RemoteID).
			Msg("Storage operation failed")
		Error(c, status, code, appErr.Error(), gin.H{"provider": appErr.Provider, "remoteId": appErr.RemoteID})
		return
	}

	Error(c, status, code, appErr.Message, nil)
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}
