package token

import (
	"fmt"
	"time"
)

// Config 令牌编解码配置
type Config struct {
	// Secret 对称签名密钥（HS256）
	Secret string `mapstructure:"secret"`

	// AccessTTL 访问令牌有效期（默认 1h）
	AccessTTL time.Duration `mapstructure:"access_ttl"`

	// RefreshTTL 刷新令牌有效期（默认 336h，即 14 天）
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`

	// Issuer 签发者
	Issuer string `mapstructure:"issuer"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	if c.AccessTTL == 0 {
		c.AccessTTL = time.Hour
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 14 * 24 * time.Hour
	}
	if c.Issuer == "" {
		c.Issuer = "authapi"
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretEmpty
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("token: access_ttl must be positive")
	}
	if c.RefreshTTL <= 0 {
		return fmt.Errorf("token: refresh_ttl must be positive")
	}
	if c.RefreshTTL <= c.AccessTTL {
		return fmt.Errorf("token: refresh_ttl must exceed access_ttl")
	}
	return nil
}
