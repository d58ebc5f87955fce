// Package httpx provides unified handling of HTTP requests/responses
package httpx

import (
	"errors"
	"net/http"

	"github.com/KOMKZ/go-auth-service/errcode"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse error wire format
// Clients switch on the error_code string, so the set of values is a
// stable API contract (see errcode package).
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
}

// OkJson successful response (raw payload, no envelope)
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// NoRouteHandler 404 route not found handler
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			ErrorCode: "NOT FOUND",
		})
	}
}

// NoMethodHandler 405 Method Not Allowed handler
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{
			ErrorCode: "METHOD NOT ALLOWED",
		})
	}
}

// HandleError maps errors onto the wire format
// LayeredError carries its own HTTP status and client-facing code;
// anything else is treated as an internal error so details never leak.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	ctx := c.Request.Context()

	var layeredErr *errcode.LayeredError
	if errors.As(err, &layeredErr) {
		fields := []zap.Field{
			zap.Int("error_code", layeredErr.Code()),
			zap.String("wire_code", layeredErr.WireCode()),
			zap.String("path", c.Request.URL.Path),
		}
		if layeredErr.Cause() != nil {
			fields = append(fields, zap.Error(layeredErr.Cause()))
		}

		if layeredErr.HTTPStatus() >= http.StatusInternalServerError {
			logger.ErrorCtx(ctx, "httpx", "request failed", fields...)
		} else {
			logger.WarnCtx(ctx, "httpx", "request rejected", fields...)
		}

		c.JSON(layeredErr.HTTPStatus(), ErrorResponse{
			ErrorCode: layeredErr.WireCode(),
		})
		return
	}

	// Unknown error -> 500 (avoid leaking internal information)
	logger.ErrorCtx(ctx, "httpx", "unexpected error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: errcode.ErrInternal.WireCode(),
	})
}
