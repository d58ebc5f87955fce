package middleware

import (
	"time"

	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogConfig HTTP request log configuration
type RequestLogConfig struct {
	// SkipPaths list of paths to skip recording
	SkipPaths []string
}

// DefaultRequestLogConfig Default request log configuration
func DefaultRequestLogConfig() RequestLogConfig {
	return RequestLogConfig{
		SkipPaths: []string{},
	}
}

// RequestLog Gin HTTP request logging middleware (structured logs)
// Replace gin.Logger() with a custom Logger component to log request logs
//
// Function:
// - Structured log fields (status code, duration, client IP, etc.)
// - Automatically classify by status code (500+ Error, 400+ Warning, 200+ Information)
// - Support for automatic association of TraceID (using Context API)
// - Support skipping specified paths
func RequestLog() gin.HandlerFunc {
	return RequestLogWithConfig(DefaultRequestLogConfig())
}

// RequestLogWithConfig Create HTTP request log middleware with custom configuration
func RequestLogWithConfig(cfg RequestLogConfig) gin.HandlerFunc {
	skipPathsMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipPathsMap[path] = true
	}

	return func(c *gin.Context) {
		if skipPathsMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("body_size", c.Writer.Size()),
		}

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			fields = append(fields, zap.String("error", errorMessage))
		}

		ctx := c.Request.Context()

		if statusCode >= 500 {
			logger.ErrorCtx(ctx, "http", "HTTP 请求", fields...)
		} else if statusCode >= 400 {
			logger.WarnCtx(ctx, "http", "HTTP 请求", fields...)
		} else {
			logger.InfoCtx(ctx, "http", "HTTP 请求", fields...)
		}
	}
}
