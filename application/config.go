package application

import "time"

// AppConfig 应用级配置
type AppConfig struct {
	// Name 应用名称
	Name string `mapstructure:"name"`

	// Env 运行环境（dev/test/prod）
	Env string `mapstructure:"env"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// Port 监听端口
	Port int `mapstructure:"port"`

	// Mode Gin 运行模式（debug/release/test）
	Mode string `mapstructure:"mode"`

	// ReadTimeout 读超时
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout 写超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout 优雅关闭等待时间
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ApplyDefaults 应用默认值
func (c *ServerConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// CORSMiddlewareConfig CORS 中间件配置
type CORSMiddlewareConfig struct {
	Enable           bool     `mapstructure:"enable"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// RequestLogMiddlewareConfig 请求日志中间件配置
type RequestLogMiddlewareConfig struct {
	Enable    bool     `mapstructure:"enable"`
	SkipPaths []string `mapstructure:"skip_paths"`
}

// MiddlewareConfig 中间件开关配置
type MiddlewareConfig struct {
	CORS       CORSMiddlewareConfig       `mapstructure:"cors"`
	RequestLog RequestLogMiddlewareConfig `mapstructure:"request_log"`
}

// DefaultMiddlewareConfig 默认开启跨域与请求日志
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		CORS:       CORSMiddlewareConfig{Enable: true, AllowCredentials: true},
		RequestLog: RequestLogMiddlewareConfig{Enable: true, SkipPaths: []string{"/healthz"}},
	}
}
