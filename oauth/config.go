package oauth

import "fmt"

// Config Google OAuth 配置
type Config struct {
	// ClientID Google OAuth 客户端 ID
	ClientID string `mapstructure:"client_id"`

	// ClientSecret Google OAuth 客户端密钥
	ClientSecret string `mapstructure:"client_secret"`

	// RedirectURL 授权回调地址
	RedirectURL string `mapstructure:"redirect_url"`

	// Scopes 请求的权限范围
	Scopes []string `mapstructure:"scopes"`

	// UserInfoURL 用户信息端点，留空使用 Google 默认
	UserInfoURL string `mapstructure:"user_info_url"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"openid", "email", "profile"}
	}
	if c.UserInfoURL == "" {
		c.UserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("oauth: client_id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("oauth: client_secret is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("oauth: redirect_url is required")
	}
	return nil
}
