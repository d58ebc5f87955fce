package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDKeyDefault TraceID key default value in the Context
	TraceIDKeyDefault = "trace_id"

	// TraceIDHeaderDefault The default value for the TraceID key in the HTTP header
	TraceIDHeaderDefault = "X-Trace-ID"
)

// TraceConfig Trace middleware configuration
type TraceConfig struct {
	// TraceIDKey stored in Context (default "trace_id")
	TraceIDKey string

	// TraceIDHeader is the key in the HTTP Header (default "X-Trace-ID")
	TraceIDHeader string

	// EnableResponseHeader whether to write TraceID into Response Header (default true)
	EnableResponseHeader bool

	// Generator custom TraceID generator (default uses UUID)
	Generator func() string
}

// DefaultTraceConfig Default configuration
func DefaultTraceConfig() TraceConfig {
	return TraceConfig{
		TraceIDKey:           TraceIDKeyDefault,
		TraceIDHeader:        TraceIDHeaderDefault,
		EnableResponseHeader: true,
		Generator:            func() string { return uuid.New().String() },
	}
}

// TraceID Create TraceID middleware
//
// Function:
// 1. Extract or generate TraceID from Header
// 2. Inject into gin.Context and context.Context
// 3. Optional: Write TraceID to Response Header
//
// Usage:
//
//	engine.Use(middleware.TraceID(middleware.DefaultTraceConfig()))
func TraceID(cfg TraceConfig) gin.HandlerFunc {
	if cfg.TraceIDKey == "" {
		cfg.TraceIDKey = TraceIDKeyDefault
	}
	if cfg.TraceIDHeader == "" {
		cfg.TraceIDHeader = TraceIDHeaderDefault
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(c *gin.Context) {
		traceID := c.GetHeader(cfg.TraceIDHeader)
		if traceID == "" {
			traceID = cfg.Generator()
		}

		// Inject into context so the logger can pick it up
		ctx := context.WithValue(c.Request.Context(), cfg.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		// Inject into gin.Context (for easy direct access by Handler)
		c.Set(cfg.TraceIDKey, traceID)

		if cfg.EnableResponseHeader {
			c.Writer.Header().Set(cfg.TraceIDHeader, traceID)
		}

		c.Next()
	}
}

// GetTraceID retrieves the TraceID from gin.Context (convenience method)
func GetTraceID(c *gin.Context) string {
	traceID, exists := c.Get(TraceIDKeyDefault)
	if !exists {
		return ""
	}
	if id, ok := traceID.(string); ok {
		return id
	}
	return ""
}
