package tokencache

// Config 令牌缓存配置
type Config struct {
	// KeyPrefix Redis key 前缀
	KeyPrefix string `mapstructure:"key_prefix"`

	// SystemTokenBytes 系统令牌随机字节数
	SystemTokenBytes int `mapstructure:"system_token_bytes"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "authapi:token:"
	}
	if c.SystemTokenBytes <= 0 {
		c.SystemTokenBytes = 32
	}
}
