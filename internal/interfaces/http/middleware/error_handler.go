package middleware

import (
	"net/http"

	apperrors "github.com/easayliu/mirror-status-bot/internal/shared/errors"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware 统一错误处理中间件
// 捕获handler中设置的错误,自动转换为合适的HTTP响应
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if serviceErr, ok := apperrors.AsServiceError(err); ok {
			c.JSON(mapErrorCodeToHTTPStatus(serviceErr.Code), gin.H{
				"error":   serviceErr.Message,
				"code":    serviceErr.Code,
				"details": serviceErr.Details,
			})
			return
		}

		logger.Error("Unhandled request error", "path", c.FullPath(), "request_id", RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  apperrors.ErrorCodeInternalError,
		})
	}
}

// mapErrorCodeToHTTPStatus 将业务错误码映射到HTTP状态码
func mapErrorCodeToHTTPStatus(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrorCodeInvalidRequest, apperrors.ErrorCodeUnsupportedLink:
		return http.StatusBadRequest
	case apperrors.ErrorCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrorCodeTaskLimit:
		return http.StatusTooManyRequests
	case apperrors.ErrorCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RecoverMiddleware 恢复中间件 - 捕获panic并转换为500错误
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered", "path", c.Request.URL.Path, "request_id", RequestID(c), "panic", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  apperrors.ErrorCodeInternalError,
				})
			}
		}()
		c.Next()
	}
}
