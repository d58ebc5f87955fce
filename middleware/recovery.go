package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/KOMKZ/go-auth-service/errcode"
	"github.com/KOMKZ/go-auth-service/httpx"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery from Gin panic (structured logging)
// Replace gin.Recovery() with a custom Logger component to log panic logs
// Function:
// - Catch panics in the handler to prevent program crashes
// - Log complete stack information
// - Return a unified 500 error response to the client
// - Do not expose sensitive stack information to clients
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				logger.Error("gin-error", "Panic recovered",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
					zap.String("stack", stack),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, httpx.ErrorResponse{
					ErrorCode: errcode.ErrInternal.WireCode(),
				})
			}
		}()

		c.Next()
	}
}
