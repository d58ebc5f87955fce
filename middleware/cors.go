package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig CORS 中间件配置
type CORSConfig struct {
	// AllowOrigins 允许的源列表（默认 ["*"]）
	// 携带刷新令牌 Cookie 的跨域请求必须配置具体源并开启 AllowCredentials
	AllowOrigins []string

	// AllowMethods 允许的 HTTP 方法列表
	AllowMethods []string

	// AllowHeaders 允许的请求头列表
	AllowHeaders []string

	// AllowCredentials 是否允许发送凭证（Cookie、HTTP 认证等）（默认 false）
	// 注意：当为 true 时，AllowOrigins 不能使用 "*"
	AllowCredentials bool

	// MaxAge 预检请求缓存时间（秒）（默认 43200，即 12 小时）
	MaxAge int
}

// DefaultCORSConfig 默认 CORS 配置
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       43200,
	}
}

// CORS 创建 CORS 中间件（使用默认配置）
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig 创建 CORS 中间件（自定义配置）
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = DefaultCORSConfig().AllowMethods
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = DefaultCORSConfig().AllowHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 43200
	}

	allowMethodsStr := strings.Join(cfg.AllowMethods, ", ")
	allowHeadersStr := strings.Join(cfg.AllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowOrigin := ""
		if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
			allowOrigin = "*"
		} else if origin != "" {
			for _, allowedOrigin := range cfg.AllowOrigins {
				if allowedOrigin == origin {
					allowOrigin = origin
					break
				}
			}
		}

		// Origin 不在允许列表中，跳过 CORS 处理
		if allowOrigin == "" && origin != "" {
			c.Next()
			return
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", allowMethodsStr)
		c.Writer.Header().Set("Access-Control-Allow-Headers", allowHeadersStr)

		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == "OPTIONS" {
			c.Writer.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", cfg.MaxAge))
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
