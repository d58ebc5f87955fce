package directory

import (
	"fmt"
	"time"
)

// Config 用户目录服务客户端配置
type Config struct {
	// BaseURL 目录服务地址，如 http://users.internal:8080
	BaseURL string `mapstructure:"base_url"`

	// Timeout 单次请求超时（默认 10s）
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxAttempts 瞬时故障重试次数（默认 3）
	MaxAttempts int `mapstructure:"max_attempts"`

	// SystemTokenTTL 出站系统令牌有效期（默认 5m）
	SystemTokenTTL time.Duration `mapstructure:"system_token_ttl"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.SystemTokenTTL == 0 {
		c.SystemTokenTTL = 5 * time.Minute
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("directory: base_url is required")
	}
	return nil
}
