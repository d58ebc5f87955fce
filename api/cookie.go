package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig 刷新令牌 Cookie 配置。
// Cookie 限定在认证路由路径下，其他接口的请求不会携带刷新令牌。
type CookieConfig struct {
	// Name Cookie 名称
	Name string `mapstructure:"name"`

	// Path Cookie 路径
	Path string `mapstructure:"path"`

	// Domain Cookie 域
	Domain string `mapstructure:"domain"`

	// Secure 仅 HTTPS 发送
	Secure bool `mapstructure:"secure"`
}

// ApplyDefaults 应用默认值
func (c *CookieConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "_authapi_ref"
	}
	if c.Path == "" {
		c.Path = "/api/authentication"
	}
}

// setRefreshCookie 下发刷新令牌 Cookie，有效期与刷新令牌一致
func setRefreshCookie(c *gin.Context, cfg *CookieConfig, refreshToken string, expires time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.Name,
		Value:    refreshToken,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  expires,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearRefreshCookie 清除刷新令牌 Cookie
func clearRefreshCookie(c *gin.Context, cfg *CookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// refreshCookieValue 读取刷新令牌 Cookie，不存在返回空串
func refreshCookieValue(c *gin.Context, cfg *CookieConfig) string {
	cookie, err := c.Request.Cookie(cfg.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
