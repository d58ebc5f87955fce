package blacklist

// Config 黑名单配置
type Config struct {
	// KeyPrefix Redis key 前缀
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "authapi:blacklist:"
	}
}
